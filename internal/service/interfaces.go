package service

import (
	"context"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// IRecipeService defines the interface for recipe mutations and lookups
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipeID uint, in RecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, recipeID uint) error
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, ids []uint) ([]models.Recipe, error)
}

// ISubscriptionService defines the interface for follow edges
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, targetID uuid.UUID) error
	Unsubscribe(ctx context.Context, userID, targetID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	IsSubscribed(ctx context.Context, viewerID *uuid.UUID, targetID uuid.UUID) (bool, error)
	SubscriptionFeed(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]SubscriptionEntry, error)
}

// IMembershipService defines the interface for favorites and the cart
type IMembershipService interface {
	Add(ctx context.Context, kind MembershipKind, userID uuid.UUID, recipeID uint) (*models.Recipe, error)
	Remove(ctx context.Context, kind MembershipKind, userID uuid.UUID, recipeID uint) error
}

// ICatalogService defines the interface for reference data lookups
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IMembershipService   = (*MembershipService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ ImageStore           = (*S3ImageStore)(nil)
	_ ImageStore           = (*LocalImageStore)(nil)
)
