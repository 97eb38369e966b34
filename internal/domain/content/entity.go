package content

import "time"

// Page is a content-managed page rendered by the frontend.
type Page struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Published bool      `gorm:"not null;default:false;index" json:"published"`
	Sections  []Section `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Page) TableName() string { return "pages" }

// Section is one ordered block of a page.
type Section struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PageID    int64     `gorm:"not null;index" json:"page_id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Section) TableName() string { return "sections" }

// ServiceItem is an offered service shown on the site (valuations,
// property management and the like).
type ServiceItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"type:varchar(100)" json:"icon"`
	SortOrder   int       `gorm:"not null;default:0;index" json:"sort_order"`
	Active      bool      `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ServiceItem) TableName() string { return "service_items" }
