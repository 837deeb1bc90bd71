package models

// PushSubscription is one browser/device push registration. The pair
// (user_id, endpoint) is unique: re-registering the same device replaces
// its key material instead of duplicating the row.
type PushSubscription struct {
	BaseModel
	UserID   string `gorm:"not null;index;uniqueIndex:idx_user_endpoint"`
	Endpoint string `gorm:"not null;uniqueIndex:idx_user_endpoint"`
	P256dh   string `gorm:"column:p256dh;not null"` // public key for payload encryption
	Auth     string `gorm:"not null"`               // auth secret
}
