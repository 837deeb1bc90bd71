package repositories

import (
	"uniplug_backend/internal/models"

	"gorm.io/gorm"
)

type ProductRepository interface {
	// FindLowStockByOwner returns products at or below the threshold,
	// grouped by store owner.
	FindLowStockByOwner(threshold int) (map[string][]models.Product, error)
}

type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) FindLowStockByOwner(threshold int) (map[string][]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Store").
		Where("stock_quantity <= ?", threshold).
		Order("stock_quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	byOwner := make(map[string][]models.Product)
	for _, p := range products {
		if p.Store == nil {
			continue
		}
		byOwner[p.Store.OwnerID] = append(byOwner[p.Store.OwnerID], p)
	}
	return byOwner, nil
}
