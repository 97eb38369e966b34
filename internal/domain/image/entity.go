package image

import (
	"path"
	"time"
)

// StaticURLBase is the URL prefix under which the upload directory is served.
const StaticURLBase = "/static/uploads"

// PropertyImage is one uploaded image belonging to exactly one property.
// At most one image per property has IsMain set; if a property has any
// images, exactly one is main.
type PropertyImage struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID    int64     `gorm:"not null;index" json:"property_id"`
	ImagePath     string    `gorm:"type:varchar(500);not null" json:"-"`
	ThumbnailPath string    `gorm:"type:varchar(500)" json:"-"`
	AltText       string    `gorm:"type:varchar(255)" json:"alt_text"`
	SortOrder     int       `gorm:"not null;default:0;index" json:"sort_order"`
	IsMain        bool      `gorm:"not null;default:false;index" json:"is_main"`
	FileSize      int64     `gorm:"not null;default:0" json:"file_size"`
	MimeType      string    `gorm:"type:varchar(100)" json:"mime_type"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PropertyImage) TableName() string { return "property_images" }

// PublicPath is the site-relative URL of the stored file.
func (i *PropertyImage) PublicPath() string {
	return path.Join(StaticURLBase, i.ImagePath)
}

// ThumbnailPublicPath is the site-relative URL of the thumbnail, or empty
// when no thumbnail was generated.
func (i *PropertyImage) ThumbnailPublicPath() string {
	if i.ThumbnailPath == "" {
		return ""
	}
	return path.Join(StaticURLBase, i.ThumbnailPath)
}
