// Package repository defines the persistence interface used by the services
// and its gorm implementation.
package repository

import (
	"context"

	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
)

// UserStore persists accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SubscriptionStore persists follow edges
type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, userID, subID uuid.UUID) error
	DeleteSubscription(ctx context.Context, userID, subID uuid.UUID) (int64, error)
	SubscriptionExists(ctx context.Context, userID, subID uuid.UUID) (bool, error)
	// SubscribedIDs lists the users userID follows, oldest edge first
	SubscribedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// FollowerIDs lists the users following subID, oldest edge first
	FollowerIDs(ctx context.Context, subID uuid.UUID) ([]uuid.UUID, error)
}

// CatalogStore reads and seeds reference data
type CatalogStore interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	ExistingTagIDs(ctx context.Context, ids []uint) ([]uint, error)
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	ExistingIngredientIDs(ctx context.Context, ids []uint) ([]uint, error)

	// The FirstOrCreate methods report whether a row was inserted
	FirstOrCreateUnit(ctx context.Context, name string) (*models.MeasurementUnit, bool, error)
	FirstOrCreateIngredient(ctx context.Context, name string, unitID uint) (*models.Ingredient, bool, error)
	FirstOrCreateTag(ctx context.Context, tag *models.Tag) (bool, error)
}

// IngredientRow is one recipe ingredient joined with its ingredient and unit
type IngredientRow struct {
	RecipeID     uint
	IngredientID uint
	Name         string
	Unit         string
	Amount       int
}

// RecipeStore persists recipes and their tag and ingredient join rows
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	SaveRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id uint) (int64, error)
	// GetRecipe loads the recipe with author, tags and ingredients
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	// ListRecipes loads the given recipes, newest first
	ListRecipes(ctx context.Context, ids []uint) ([]models.Recipe, error)
	RecipeExists(ctx context.Context, id uint) (bool, error)

	AllRecipeIDs(ctx context.Context) ([]uint, error)
	RecipeIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uint, error)
	// LatestRecipeIDsByAuthor returns newest first, at most limit ids when limit > 0
	LatestRecipeIDsByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]uint, error)
	CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	RecipeIDsByTagSlugs(ctx context.Context, slugs []string) ([]uint, error)

	CreateRecipeTags(ctx context.Context, rows []models.RecipeTag) error
	DeleteRecipeTags(ctx context.Context, recipeID uint) error
	CreateRecipeIngredients(ctx context.Context, rows []models.RecipeIngredient) error
	DeleteRecipeIngredients(ctx context.Context, recipeID uint) error
	// IngredientRows returns the join rows of the given recipes in insertion order
	IngredientRows(ctx context.Context, recipeIDs []uint) ([]IngredientRow, error)
}

// MembershipStore persists the favorite and shopping cart sets
type MembershipStore interface {
	AddMember(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) error
	RemoveMember(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (int64, error)
	IsMember(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (bool, error)
	MemberRecipeIDs(ctx context.Context, kind models.MembershipKind, userID uuid.UUID) ([]uint, error)
	CountMembers(ctx context.Context, kind models.MembershipKind, recipeID uint) (int64, error)
	DeleteMembershipsForRecipe(ctx context.Context, recipeID uint) error
}

// Store is everything the services need from persistence
type Store interface {
	UserStore
	SubscriptionStore
	CatalogStore
	RecipeStore
	MembershipStore

	// WithTx runs fn inside a transaction. fn must use the Store it is
	// given; returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
