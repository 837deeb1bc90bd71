package models

type User struct {
	BaseModel
	Name         string     `gorm:"not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'"`

	// Relations
	PushSubscriptions []PushSubscription `gorm:"foreignKey:UserID"`
	Notifications     []Notification     `gorm:"foreignKey:UserID"`
}
