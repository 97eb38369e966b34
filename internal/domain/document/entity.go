package document

import "time"

// PropertyDocument is a PDF attached to a property.
type PropertyDocument struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID   int64     `gorm:"not null;index" json:"property_id"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	OriginalName string    `gorm:"type:varchar(255)" json:"original_name"`
	FilePath     string    `gorm:"type:varchar(500);not null" json:"-"`
	FileSize     int64     `gorm:"not null;default:0" json:"file_size"`
	MimeType     string    `gorm:"type:varchar(100)" json:"mime_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PropertyDocument) TableName() string { return "property_documents" }
