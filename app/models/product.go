package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID               string                `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name             string                `gorm:"size:255;not null" json:"name"`
	Slug             *string               `gorm:"size:255;uniqueIndex" json:"slug"`
	Price            string                `gorm:"size:64;not null;default:''" json:"price"`
	PriceNumeric     decimal.NullDecimal   `gorm:"type:decimal(12,2);index" json:"priceNumeric"`
	InStock          bool                  `gorm:"not null" json:"inStock"`
	IsActive         bool                  `gorm:"not null;index" json:"isActive"`
	DescriptionText  string                `gorm:"type:text" json:"descriptionText"`
	DescriptionItems []string              `gorm:"type:text;serializer:json" json:"descriptionItems"`
	CompositionItems []string              `gorm:"type:text;serializer:json" json:"compositionItems"`
	Specifications   []Specification       `gorm:"type:text;serializer:json" json:"specifications"`
	SearchText       string                `gorm:"type:text" json:"searchText"`
	Views            int64                 `gorm:"not null;default:0" json:"views"`
	Categories       []Category            `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	Images           []ProductImage        `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CategoryPaths    []ProductCategoryPath `gorm:"foreignKey:ProductID" json:"categoryPaths,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductCategory is the join row between a product and one of its categories.
type ProductCategory struct {
	ProductID  string `gorm:"size:36;primaryKey" json:"productId"`
	CategoryID string `gorm:"size:36;primaryKey;index" json:"categoryId"`
}

// ProductCategoryPath is one breadcrumb segment a product was imported under.
// It is a snapshot and does not follow later category renames.
type ProductCategoryPath struct {
	ID        string `gorm:"size:36;primary_key" json:"id"`
	ProductID string `gorm:"size:36;not null;index" json:"productId"`
	PathPart  string `gorm:"size:255;not null" json:"pathPart"`
	Order     int    `gorm:"column:path_order;not null" json:"order"`
}

type ProductImage struct {
	ID           string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID    string    `gorm:"size:36;not null;index" json:"productId"`
	LocalPath    string    `gorm:"size:512" json:"localPath,omitempty"`
	RelativePath string    `gorm:"size:512" json:"relativePath"`
	Filename     string    `gorm:"size:255" json:"filename,omitempty"`
	ImageOrder   int       `gorm:"not null;default:0" json:"imageOrder"`
	IsPrimary    bool      `gorm:"not null;default:false" json:"isPrimary"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PrimaryImagePath returns the primary image path, falling back to the first image.
func (p *Product) PrimaryImagePath() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.RelativePath
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].RelativePath
	}
	return ""
}

// SlugOrID is the identifier used in public product URLs.
func (p *Product) SlugOrID() string {
	if p.Slug != nil && *p.Slug != "" {
		return *p.Slug
	}
	return p.ID
}
