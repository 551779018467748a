package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTagInsert = errors.New("tag insert failed")

// failingTagStore breaks CreateRecipeTags, including inside transactions,
// so the failure lands after the recipe row and ingredient rows are written.
type failingTagStore struct {
	repository.Store
}

func (s failingTagStore) CreateRecipeTags(ctx context.Context, rows []models.RecipeTag) error {
	return errTagInsert
}

func (s failingTagStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(failingTagStore{Store: tx})
	})
}

func newFailingRecipeService(f *recipeFixture) *RecipeService {
	return NewRecipeService(failingTagStore{Store: f.env.store}, f.env.images, metrics.Nop{}, logger.Discard())
}

func TestUpdateRecipeRollsBackOnInsertFailure(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.env.recipes.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	in := f.input()
	in.Name = "Waffles"
	in.Tags = []uint{f.dinner.ID}
	in.Ingredients = []IngredientInput{{ID: f.b.ID, Amount: 5}, {ID: f.c.ID, Amount: 1}}
	_, err = newFailingRecipeService(f).UpdateRecipe(ctx, recipe.ID, in)
	require.ErrorIs(t, err, errTagInsert)

	stored, err := f.env.recipes.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", stored.Name)
	assert.Equal(t, recipe.Image, stored.Image)
	assert.Equal(t, map[uint]int{f.a.ID: 2, f.b.ID: 3}, f.amountsOf(t, recipe.ID))
	assert.Equal(t, []uint{f.lunch.ID}, tagIDsOf(stored))
	assert.NotContains(t, f.env.images.deleted, recipe.Image)
}

func TestCreateRecipeRollsBackOnInsertFailure(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	_, err := newFailingRecipeService(f).CreateRecipe(ctx, f.author.ID, f.input())
	require.ErrorIs(t, err, errTagInsert)

	var recipes, lines int64
	require.NoError(t, f.env.db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, f.env.db.Model(&models.RecipeIngredient{}).Count(&lines).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, lines)

	// the uploaded image is discarded with the rows
	require.Len(t, f.env.images.deleted, 1)
	assert.Empty(t, f.env.images.saved)
}
