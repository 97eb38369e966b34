package property

import (
	"fmt"
	"regexp"
	"time"

	"estateportal/internal/domain/image"
)

const (
	TransactionSale = "sale"
	TransactionRent = "rent"

	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
	CurrencyBGN = "BGN"

	MaxArea = 100000
)

// Property is a single listing in the catalog.
type Property struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string  `gorm:"type:varchar(64);uniqueIndex:udx_properties_code,where:code <> ''" json:"code"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(12,2);not null;index" json:"price"`
	Currency    string  `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`

	TransactionType string `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	PropertyType    string `gorm:"type:varchar(30);not null;index" json:"property_type"`

	CityRegion string `gorm:"type:varchar(255);index" json:"city_region"`
	District   string `gorm:"type:varchar(255)" json:"district"`
	Address    string `gorm:"type:varchar(500)" json:"address"`

	Area        float64 `gorm:"type:decimal(10,2);index" json:"area"`
	Bedrooms    int     `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms   int     `gorm:"not null;default:0" json:"bathrooms"`
	Floors      int     `gorm:"not null;default:0" json:"floors"`
	FloorNumber *int    `json:"floor_number,omitempty"`

	HasParking  bool `gorm:"not null;default:false" json:"has_parking"`
	HasElevator bool `gorm:"not null;default:false" json:"has_elevator"`
	HasGarden   bool `gorm:"not null;default:false" json:"has_garden"`
	HasPool     bool `gorm:"not null;default:false" json:"has_pool"`
	Furnished   bool `gorm:"not null;default:false" json:"furnished"`
	HasAC       bool `gorm:"not null;default:false" json:"has_ac"`
	HasHeating  bool `gorm:"not null;default:false" json:"has_heating"`

	Featured  bool `gorm:"not null;default:false;index" json:"featured"`
	Active    bool `gorm:"not null;index" json:"active"`
	SortOrder int  `gorm:"not null;default:0;index" json:"sort_order"`

	Images []image.PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string { return "properties" }

// StorageKey is the folder name used for this property's uploads.
// Falls back to the numeric ID when no code is set.
func (p *Property) StorageKey() string {
	if p.Code != "" {
		return p.Code
	}
	return fmt.Sprintf("%d", p.ID)
}

var ValidTransactionTypes = map[string]bool{
	TransactionSale: true,
	TransactionRent: true,
}

var ValidCurrencies = map[string]bool{
	CurrencyEUR: true,
	CurrencyUSD: true,
	CurrencyBGN: true,
}

var ValidPropertyTypes = map[string]bool{
	"apartment":         true,
	"studio":            true,
	"maisonette":        true,
	"house":             true,
	"villa":             true,
	"floor_of_house":    true,
	"office":            true,
	"shop":              true,
	"restaurant":        true,
	"hotel":             true,
	"warehouse":         true,
	"industrial":        true,
	"garage":            true,
	"parking_space":     true,
	"plot":              true,
	"agricultural_land": true,
	"building":          true,
	"business":          true,
	"other":             true,
}

// residentialTypes are the property types that carry room and floor details.
var residentialTypes = map[string]bool{
	"apartment":      true,
	"studio":         true,
	"maisonette":     true,
	"house":          true,
	"villa":          true,
	"floor_of_house": true,
}

func (p *Property) IsResidential() bool {
	return residentialTypes[p.PropertyType]
}

// Sanitize forces residential-only detail fields to their defaults for
// non-residential property types. Runs before validation and persistence.
func (p *Property) Sanitize() {
	if p.IsResidential() {
		return
	}
	p.Bedrooms = 0
	p.Bathrooms = 0
	p.Floors = 0
	p.FloorNumber = nil
}

// codePattern keeps codes usable as storage folder names.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Validate checks field-level invariants. Sanitize must run first.
func (p *Property) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if !ValidCurrencies[p.Currency] {
		return fmt.Errorf("%w: unknown currency %q", ErrValidation, p.Currency)
	}
	if !ValidTransactionTypes[p.TransactionType] {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, p.TransactionType)
	}
	if !ValidPropertyTypes[p.PropertyType] {
		return fmt.Errorf("%w: unknown property type %q", ErrValidation, p.PropertyType)
	}
	if p.Area <= 0 || p.Area > MaxArea {
		return fmt.Errorf("%w: area must be between 0 and %d", ErrValidation, MaxArea)
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.Floors < 0 {
		return fmt.Errorf("%w: room counts must not be negative", ErrValidation)
	}
	if p.Code != "" && !codePattern.MatchString(p.Code) {
		return fmt.Errorf("%w: code may contain only letters, digits, '-' and '_'", ErrValidation)
	}
	return nil
}

// PropertyTypes returns the accepted property_type values.
func PropertyTypes() []string {
	types := make([]string, 0, len(ValidPropertyTypes))
	for t := range ValidPropertyTypes {
		types = append(types, t)
	}
	return types
}
