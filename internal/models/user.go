package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'"`

	// Relations
	TalentProfile   *TalentProfile   `gorm:"foreignKey:UserID"`
	BusinessProfile *BusinessProfile `gorm:"foreignKey:UserID"`
}
