package service

import (
	"context"
	"testing"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeIDsByTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, env.db, "alice")
	breakfast := testhelpers.CreateTag(t, env.db, "breakfast")
	testhelpers.CreateTag(t, env.db, "lunch")
	dinner := testhelpers.CreateTag(t, env.db, "dinner")
	x := testhelpers.CreateRecipe(t, env.db, author, "omelette", []*models.Tag{breakfast}, nil)
	testhelpers.CreateRecipe(t, env.db, author, "steak", []*models.Tag{dinner}, nil)
	both := testhelpers.CreateRecipe(t, env.db, author, "toast", []*models.Tag{breakfast, dinner}, nil)

	ids, err := env.query.RecipeIDsByTags(ctx, []string{"breakfast", "lunch"})
	require.NoError(t, err)
	assert.Equal(t, []uint{x.ID, both.ID}, ids.Sorted())

	ids, err = env.query.RecipeIDsByTags(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = env.query.RecipeIDsByTags(ctx, []string{"unknown"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFavoriteAndCartSetsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, env.db, "alice")
	r1 := testhelpers.CreateRecipe(t, env.db, user, "soup", nil, nil)
	r2 := testhelpers.CreateRecipe(t, env.db, user, "salad", nil, nil)
	testhelpers.AddFavorite(t, env.db, user, r1)
	testhelpers.AddToCart(t, env.db, user, r1)
	testhelpers.AddToCart(t, env.db, user, r2)

	favs, err := env.query.FavoriteOrCartRecipeIDs(ctx, &user.ID, KindFavorite)
	require.NoError(t, err)
	assert.Equal(t, []uint{r1.ID}, favs.Sorted())

	cart, err := env.query.FavoriteOrCartRecipeIDs(ctx, &user.ID, KindCart)
	require.NoError(t, err)
	assert.Equal(t, []uint{r1.ID, r2.ID}, cart.Sorted())

	anon, err := env.query.FavoriteOrCartRecipeIDs(ctx, nil, KindCart)
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestFilterRecipes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")
	lunch := testhelpers.CreateTag(t, env.db, "lunch")
	dinner := testhelpers.CreateTag(t, env.db, "dinner")

	a1 := testhelpers.CreateRecipe(t, env.db, alice, "a1", []*models.Tag{lunch}, nil)
	a2 := testhelpers.CreateRecipe(t, env.db, alice, "a2", []*models.Tag{dinner}, nil)
	b1 := testhelpers.CreateRecipe(t, env.db, bob, "b1", []*models.Tag{lunch}, nil)
	b2 := testhelpers.CreateRecipe(t, env.db, bob, "b2", []*models.Tag{dinner}, nil)
	testhelpers.AddFavorite(t, env.db, alice, b1)
	testhelpers.AddFavorite(t, env.db, alice, a2)
	testhelpers.AddToCart(t, env.db, alice, b2)

	all, err := env.query.AllRecipeIDs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	tests := []struct {
		name   string
		filter RecipeFilter
		want   []uint
	}{
		{"no criteria", RecipeFilter{ViewerID: &alice.ID}, []uint{a1.ID, a2.ID, b1.ID, b2.ID}},
		{"author", RecipeFilter{AuthorID: &bob.ID}, []uint{b1.ID, b2.ID}},
		{"tags", RecipeFilter{TagSlugs: []string{"lunch"}}, []uint{a1.ID, b1.ID}},
		{"author and tags", RecipeFilter{AuthorID: &bob.ID, TagSlugs: []string{"lunch"}}, []uint{b1.ID}},
		{"favorited", RecipeFilter{ViewerID: &alice.ID, IsFavorited: boolPtr(true)}, []uint{a2.ID, b1.ID}},
		{"not favorited", RecipeFilter{ViewerID: &alice.ID, IsFavorited: boolPtr(false)}, []uint{a1.ID, b2.ID}},
		{"in cart", RecipeFilter{ViewerID: &alice.ID, IsInCart: boolPtr(true)}, []uint{b2.ID}},
		{"not in cart and tagged dinner", RecipeFilter{ViewerID: &alice.ID, IsInCart: boolPtr(false), TagSlugs: []string{"dinner"}}, []uint{a2.ID}},
		{"favorited and in cart", RecipeFilter{ViewerID: &alice.ID, IsFavorited: boolPtr(true), IsInCart: boolPtr(true)}, []uint{}},
		{"anonymous ignores membership flags", RecipeFilter{IsFavorited: boolPtr(true), IsInCart: boolPtr(false)}, []uint{a1.ID, a2.ID, b1.ID, b2.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.query.FilterRecipes(ctx, all, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestRecipeIngredientsWithAmounts(t *testing.T) {
	env := newTestEnv(t)
	author := testhelpers.CreateUser(t, env.db, "alice")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	eggs := testhelpers.CreateIngredient(t, env.db, "eggs", "pcs")
	recipe := testhelpers.CreateRecipe(t, env.db, author, "pancakes", nil, []testhelpers.Amount{
		{Ingredient: flour, Amount: 250},
		{Ingredient: eggs, Amount: 2},
	})

	got, err := env.query.RecipeIngredientsWithAmounts(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []IngredientAmount{
		{ID: flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 250},
		{ID: eggs.ID, Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
	}, got)
}

func TestAggregateShoppingRowsMergesByName(t *testing.T) {
	rows := []repository.IngredientRow{
		{RecipeID: 1, IngredientID: 10, Name: "Salt", Unit: "g", Amount: 10},
		{RecipeID: 1, IngredientID: 11, Name: "Milk", Unit: "ml", Amount: 200},
		{RecipeID: 2, IngredientID: 12, Name: "Salt", Unit: "g", Amount: 15},
		{RecipeID: 2, IngredientID: 13, Name: "Eggs", Unit: "pcs", Amount: 3},
	}

	assert.Equal(t, []ShoppingListItem{
		{Name: "Salt", Amount: 25, Unit: "g"},
		{Name: "Milk", Amount: 200, Unit: "ml"},
		{Name: "Eggs", Amount: 3, Unit: "pcs"},
	}, aggregateShoppingRows(rows))

	assert.Empty(t, aggregateShoppingRows(nil))
}

func TestAggregateShoppingList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, env.db, "alice")
	salt := testhelpers.CreateIngredient(t, env.db, "Salt", "g")
	water := testhelpers.CreateIngredient(t, env.db, "Water", "ml")
	soup := testhelpers.CreateRecipe(t, env.db, user, "soup", nil, []testhelpers.Amount{{Ingredient: salt, Amount: 10}, {Ingredient: water, Amount: 500}})
	bread := testhelpers.CreateRecipe(t, env.db, user, "bread", nil, []testhelpers.Amount{{Ingredient: salt, Amount: 15}})
	notInCart := testhelpers.CreateRecipe(t, env.db, user, "pie", nil, []testhelpers.Amount{{Ingredient: salt, Amount: 100}})
	testhelpers.AddToCart(t, env.db, user, soup)
	testhelpers.AddToCart(t, env.db, user, bread)
	testhelpers.AddFavorite(t, env.db, user, notInCart)

	items, err := env.query.AggregateShoppingList(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingListItem{
		{Name: "Salt", Amount: 25, Unit: "g"},
		{Name: "Water", Amount: 500, Unit: "ml"},
	}, items)

	empty, err := env.query.AggregateShoppingList(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSubscriberRecipeIDsAndCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, env.db, "alice")
	fan := testhelpers.CreateUser(t, env.db, "bob")
	first := testhelpers.CreateRecipe(t, env.db, author, "first", nil, nil)
	second := testhelpers.CreateRecipe(t, env.db, author, "second", nil, nil)
	testhelpers.AddFavorite(t, env.db, fan, first)

	ids, err := env.query.SubscriberRecipeIDs(ctx, author.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID}, ids)

	ids, err = env.query.SubscriberRecipeIDs(ctx, author.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, ids)

	count, err := env.query.RecipesCount(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	favorited, err := env.query.FavoritedCount(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, favorited)

	isFav, err := env.query.IsMember(ctx, &fan.ID, KindFavorite, first.ID)
	require.NoError(t, err)
	assert.True(t, isFav)
	isFav, err = env.query.IsMember(ctx, nil, KindFavorite, first.ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}
