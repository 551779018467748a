package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipKind selects one of the two user-recipe sets
type MembershipKind int

const (
	KindFavorite MembershipKind = iota + 1
	KindCart
)

func (k MembershipKind) String() string {
	switch k {
	case KindFavorite:
		return "favorite"
	case KindCart:
		return "shopping_cart"
	}
	return "unknown"
}

// Valid reports whether k names a known set
func (k MembershipKind) Valid() bool {
	return k == KindFavorite || k == KindCart
}

// FavoriteRecipe and ShoppingCart are independent user-recipe sets with the
// same shape. Each pair appears at most once.

type FavoriteRecipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_pair;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_pair;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// All lists every model in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserSubscription{},
		&Tag{},
		&MeasurementUnit{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&FavoriteRecipe{},
		&ShoppingCart{},
	}
}
