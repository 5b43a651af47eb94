package repositories

import "gorm.io/gorm"

// Set bundles the repositories and the transactor that share one backing store.
type Set struct {
	Categories CategoryRepositoryImpl
	Products   ProductRepositoryImpl
	Links      ProductCategoryRepositoryImpl
	Images     ProductImageRepositoryImpl
	Paths      CategoryPathRepositoryImpl
	Admins     AdminRepositoryImpl
	Tx         Transactor
}

func NewSet(db *gorm.DB) Set {
	return Set{
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Links:      NewProductCategoryRepository(db),
		Images:     NewProductImageRepository(db),
		Paths:      NewCategoryPathRepository(db),
		Admins:     NewAdminRepository(db),
		Tx:         NewTransactor(db),
	}
}
