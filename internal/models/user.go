package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// BeforeCreate assigns a fresh UUID when the caller left it empty
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserSubscription is a directed follow edge: UserID follows SubID.
type UserSubscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair" json:"user_id"`
	SubID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair;index;check:chk_subscription_not_self,user_id <> sub_id" json:"sub_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sub  User `gorm:"foreignKey:SubID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}
