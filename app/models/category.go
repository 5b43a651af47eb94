package models

import (
	"time"
)

type Category struct {
	ID          string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	ParentID    *string    `gorm:"size:36;index" json:"parentId"`
	Parent      *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products    []Product  `gorm:"many2many:product_categories;" json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// CategoryWithCount is a category row plus the number of products directly associated with it.
type CategoryWithCount struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	ParentID     *string `json:"parentId"`
	Description  string  `json:"description"`
	ProductCount int64   `json:"productCount"`
}
