package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain text password of every user made by CreateUser
const Password = "s3cret-pass"

var passwordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateUser inserts a user named username with email <username>@example.com
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: passwordHash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTag inserts a tag whose name, slug and color derive from slug
func CreateTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	var count int64
	db.Model(&models.Tag{}).Count(&count)
	tag := &models.Tag{
		Name:  "Tag " + slug,
		Slug:  slug,
		Color: fmt.Sprintf("#%06X", count+1),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

// CreateIngredient inserts an ingredient, creating its unit when needed
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	var mu models.MeasurementUnit
	if err := db.Where(models.MeasurementUnit{Name: unit}).FirstOrCreate(&mu).Error; err != nil {
		t.Fatalf("failed to create unit %s: %v", unit, err)
	}
	ingredient := &models.Ingredient{Name: name, MeasurementUnitID: mu.ID}
	if err := db.Omit("MeasurementUnit").Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	ingredient.MeasurementUnit = mu
	return ingredient
}

// Amount pairs an ingredient with a quantity for CreateRecipe
type Amount struct {
	Ingredient *models.Ingredient
	Amount     int
}

var recipeClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// CreateRecipe inserts a recipe with its join rows. Each call gets a
// creation time one minute later than the previous one, so newest-first
// ordering is deterministic.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, amounts []Amount) *models.Recipe {
	t.Helper()
	recipeClock = recipeClock.Add(time.Minute)
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "/media/recipes/images/" + name + ".png",
		Text:        "How to cook " + name,
		CookingTime: 10,
		CreatedAt:   recipeClock,
	}
	if err := db.Omit("Author", "RecipeTags", "RecipeIngredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	for _, tag := range tags {
		if err := db.Omit("Tag").Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
			t.Fatalf("failed to tag recipe %s: %v", name, err)
		}
	}
	for _, a := range amounts {
		row := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: a.Ingredient.ID, Amount: a.Amount}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			t.Fatalf("failed to add ingredient to recipe %s: %v", name, err)
		}
	}
	return recipe
}

// AddFavorite and AddToCart insert membership rows directly
func AddFavorite(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	if err := db.Create(&models.FavoriteRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("failed to add favorite: %v", err)
	}
}

func AddToCart(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	if err := db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("failed to add to cart: %v", err)
	}
}

// Subscribe inserts a follow edge
func Subscribe(t *testing.T, db *gorm.DB, follower, followed *models.User) {
	t.Helper()
	edge := &models.UserSubscription{UserID: follower.ID, SubID: followed.ID}
	if err := db.Omit("User", "Sub").Create(edge).Error; err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
}
