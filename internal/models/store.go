package models

// Store is a seller storefront. Only the fields the notification service
// needs are modelled; the storefront itself lives in another system.
type Store struct {
	BaseModel
	OwnerID string `gorm:"not null;index"`
	Name    string `gorm:"not null"`
}

type Product struct {
	BaseModel
	StoreID       string `gorm:"not null;index"`
	Name          string `gorm:"not null"`
	StockQuantity int    `gorm:"not null;default:0"`

	Store *Store `gorm:"foreignKey:StoreID"`
}
