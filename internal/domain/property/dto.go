package property

import (
	"bytes"
	"encoding/json"
	"time"
)

// Filters are the optional search criteria of the listing query.
// Nil pointer fields mean the predicate is not applied.
type Filters struct {
	Keyword         string
	TransactionType string
	PropertyType    string
	CityRegion      string
	District        string
	PriceMin        *float64
	PriceMax        *float64
	AreaMin         *float64
	AreaMax         *float64
	Featured        *bool
	Active          *bool
	Page            int
	Limit           int
}

type CreateRequest struct {
	Code            string  `json:"code"`
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Currency        string  `json:"currency" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	PropertyType    string  `json:"property_type" validate:"required"`
	CityRegion      string  `json:"city_region"`
	District        string  `json:"district"`
	Address         string  `json:"address"`
	Area            float64 `json:"area" validate:"required,gt=0"`
	Bedrooms        int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms       int     `json:"bathrooms" validate:"gte=0"`
	Floors          int     `json:"floors" validate:"gte=0"`
	FloorNumber     *int    `json:"floor_number,omitempty"`
	HasParking      bool    `json:"has_parking"`
	HasElevator     bool    `json:"has_elevator"`
	HasGarden       bool    `json:"has_garden"`
	HasPool         bool    `json:"has_pool"`
	Furnished       bool    `json:"furnished"`
	HasAC           bool    `json:"has_ac"`
	HasHeating      bool    `json:"has_heating"`
	Featured        bool    `json:"featured"`
	Active          *bool   `json:"active,omitempty"`
	SortOrder       int     `json:"sort_order"`
}

// NullableInt distinguishes a field that was absent from the request body
// from one sent as an explicit null, so a partial update can clear a value.
type NullableInt struct {
	Present bool
	Value   *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// UpdateRequest carries partial updates. UpdatedAt, when present, enables
// the optimistic-lock check against the stored row.
type UpdateRequest struct {
	Code            *string     `json:"code,omitempty"`
	Title           *string     `json:"title,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Price           *float64    `json:"price,omitempty"`
	Currency        *string     `json:"currency,omitempty"`
	TransactionType *string     `json:"transaction_type,omitempty"`
	PropertyType    *string     `json:"property_type,omitempty"`
	CityRegion      *string     `json:"city_region,omitempty"`
	District        *string     `json:"district,omitempty"`
	Address         *string     `json:"address,omitempty"`
	Area            *float64    `json:"area,omitempty"`
	Bedrooms        *int        `json:"bedrooms,omitempty"`
	Bathrooms       *int        `json:"bathrooms,omitempty"`
	Floors          *int        `json:"floors,omitempty"`
	FloorNumber     NullableInt `json:"floor_number"`
	HasParking      *bool       `json:"has_parking,omitempty"`
	HasElevator     *bool       `json:"has_elevator,omitempty"`
	HasGarden       *bool       `json:"has_garden,omitempty"`
	HasPool         *bool       `json:"has_pool,omitempty"`
	Furnished       *bool       `json:"furnished,omitempty"`
	HasAC           *bool       `json:"has_ac,omitempty"`
	HasHeating      *bool       `json:"has_heating,omitempty"`
	Featured        *bool       `json:"featured,omitempty"`
	Active          *bool       `json:"active,omitempty"`
	SortOrder       *int        `json:"sort_order,omitempty"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
}

// Summary is a property as served to clients: the record plus its resolved
// image URLs. MainImageURL always holds a usable absolute URL, falling back
// to the placeholder asset when no image file is available.
type Summary struct {
	Property
	MainImageURL string   `json:"main_image_url"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Gallery      []string `json:"gallery"`
}
