package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

type recipeEnv struct {
	*testAPI
	author, other *models.User
	lunch, dinner *models.Tag
	flour, milk   *models.Ingredient
	authorAuth    string
	otherAuth     string
}

func newRecipeEnv(t *testing.T) *recipeEnv {
	a := newTestAPI(t)
	env := &recipeEnv{
		testAPI: a,
		author:  testhelpers.CreateUser(t, a.db, "author"),
		other:   testhelpers.CreateUser(t, a.db, "other"),
		lunch:   testhelpers.CreateTag(t, a.db, "lunch"),
		dinner:  testhelpers.CreateTag(t, a.db, "dinner"),
		flour:   testhelpers.CreateIngredient(t, a.db, "flour", "g"),
		milk:    testhelpers.CreateIngredient(t, a.db, "milk", "ml"),
	}
	env.authorAuth = a.token(env.author)
	env.otherAuth = a.token(env.other)
	return env
}

func (e *recipeEnv) request() types.RecipeRequest {
	return types.RecipeRequest{
		Ingredients: []types.IngredientAmountRequest{{ID: e.flour.ID, Amount: 200}, {ID: e.milk.ID, Amount: 300}},
		Tags:        []uint{e.lunch.ID},
		Image:       testImage,
		Name:        "Pancakes",
		Text:        "Whisk and fry",
		CookingTime: 15,
	}
}

func (e *recipeEnv) create(t *testing.T) types.RecipeResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/api/recipes", e.authorAuth, e.request())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.RecipeResponse](t, w)
}

func recipePath(id uint, suffix string) string {
	return fmt.Sprintf("/api/recipes/%d%s", id, suffix)
}

func TestCreateAndGetRecipe(t *testing.T) {
	e := newRecipeEnv(t)
	created := e.create(t)

	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, e.author.ID, created.Author.ID)
	assert.Equal(t, []types.TagResponse{{ID: e.lunch.ID, Name: e.lunch.Name, Color: e.lunch.Color, Slug: "lunch"}}, created.Tags)
	assert.Equal(t, []types.RecipeIngredientResponse{
		{ID: e.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200},
		{ID: e.milk.ID, Name: "milk", MeasurementUnit: "ml", Amount: 300},
	}, created.Ingredients)
	assert.Contains(t, created.Image, "/media/recipes/images/")
	assert.False(t, created.IsFavorited)

	w := e.do(http.MethodGet, recipePath(created.ID, ""), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[types.RecipeResponse](t, w)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Ingredients, fetched.Ingredients)

	stew := testhelpers.CreateRecipe(t, e.db, e.other, "stew", []*models.Tag{e.dinner},
		[]testhelpers.Amount{{Ingredient: e.milk, Amount: 7}, {Ingredient: e.flour, Amount: 3}})
	w = e.do(http.MethodGet, recipePath(stew.ID, ""), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []types.RecipeIngredientResponse{
		{ID: e.milk.ID, Name: "milk", MeasurementUnit: "ml", Amount: 7},
		{ID: e.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 3},
	}, decode[types.RecipeResponse](t, w).Ingredients)

	w = e.do(http.MethodGet, recipePath(9999, ""), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	e := newRecipeEnv(t)

	tests := []struct {
		name   string
		mutate func(*types.RecipeRequest)
		field  string
	}{
		{"cooking time zero", func(r *types.RecipeRequest) { r.CookingTime = 0 }, "cooking_time"},
		{"cooking time too long", func(r *types.RecipeRequest) { r.CookingTime = 32001 }, "cooking_time"},
		{"unknown tag", func(r *types.RecipeRequest) { r.Tags = []uint{404} }, "tags"},
		{"zero amount", func(r *types.RecipeRequest) {
			r.Ingredients = []types.IngredientAmountRequest{{ID: e.flour.ID, Amount: 0}}
		}, "amount"},
		{"no image", func(r *types.RecipeRequest) { r.Image = "" }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.request()
			tt.mutate(&req)
			w := e.do(http.MethodPost, "/api/recipes", e.authorAuth, req)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decode[middleware.ErrorResponse](t, w)
			assert.Equal(t, "validation_error", resp.Error)
			assert.Equal(t, tt.field, resp.Field)
		})
	}

	req := e.request()
	req.CookingTime = 32000
	w := e.do(http.MethodPost, "/api/recipes", e.authorAuth, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateRecipe(t *testing.T) {
	e := newRecipeEnv(t)
	created := e.create(t)

	req := e.request()
	req.Name = "Crepes"
	req.Image = ""
	req.Tags = []uint{e.dinner.ID}
	req.Ingredients = []types.IngredientAmountRequest{{ID: e.milk.ID, Amount: 500}}

	w := e.do(http.MethodPatch, recipePath(created.ID, ""), e.otherAuth, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPut, recipePath(created.ID, ""), e.authorAuth, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = e.do(http.MethodPatch, recipePath(created.ID, ""), e.authorAuth, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[types.RecipeResponse](t, w)
	assert.Equal(t, "Crepes", updated.Name)
	assert.Equal(t, created.Image, updated.Image)
	assert.Equal(t, []types.RecipeIngredientResponse{{ID: e.milk.ID, Name: "milk", MeasurementUnit: "ml", Amount: 500}}, updated.Ingredients)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)

	w = e.do(http.MethodPatch, recipePath(9999, ""), e.authorAuth, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	e := newRecipeEnv(t)
	created := e.create(t)

	w := e.do(http.MethodDelete, recipePath(created.ID, ""), e.otherAuth, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodDelete, recipePath(created.ID, ""), e.authorAuth, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(http.MethodGet, recipePath(created.ID, ""), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteAndCartEndpoints(t *testing.T) {
	e := newRecipeEnv(t)
	created := e.create(t)

	for _, suffix := range []string{"/favorite", "/shopping_cart"} {
		path := recipePath(created.ID, suffix)

		w := e.do(http.MethodPost, path, e.otherAuth, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, types.RecipeMinifiedResponse{ID: created.ID, Name: "Pancakes", Image: created.Image, CookingTime: 15},
			decode[types.RecipeMinifiedResponse](t, w))

		w = e.do(http.MethodPost, path, e.otherAuth, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = e.do(http.MethodPost, recipePath(9999, suffix), e.otherAuth, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	w := e.do(http.MethodGet, recipePath(created.ID, ""), e.otherAuth, nil)
	got := decode[types.RecipeResponse](t, w)
	assert.True(t, got.IsFavorited)
	assert.True(t, got.IsInShoppingCart)
	assert.EqualValues(t, 1, got.FavoritesCount)

	w = e.do(http.MethodDelete, recipePath(created.ID, "/favorite"), e.otherAuth, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(http.MethodDelete, recipePath(created.ID, "/favorite"), e.otherAuth, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecipesFilters(t *testing.T) {
	e := newRecipeEnv(t)
	testhelpers.CreateRecipe(t, e.db, e.author, "mine", []*models.Tag{e.lunch}, nil)
	theirs := testhelpers.CreateRecipe(t, e.db, e.other, "theirs", []*models.Tag{e.dinner}, nil)
	both := testhelpers.CreateRecipe(t, e.db, e.other, "both", []*models.Tag{e.lunch, e.dinner}, nil)
	testhelpers.AddFavorite(t, e.db, e.author, theirs)
	testhelpers.AddToCart(t, e.db, e.author, both)

	list := func(query, auth string) []string {
		t.Helper()
		w := e.do(http.MethodGet, "/api/recipes"+query, auth, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []string
		for _, r := range decode[[]types.RecipeResponse](t, w) {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Equal(t, []string{"both", "theirs", "mine"}, list("", ""))
	assert.Equal(t, []string{"mine"}, list("?author="+e.author.ID.String(), ""))
	assert.Equal(t, []string{"both", "mine"}, list("?tags=lunch", ""))
	assert.Equal(t, []string{"both", "theirs", "mine"}, list("?tags=lunch&tags=dinner", ""))
	assert.Equal(t, []string{"theirs"}, list("?is_favorited=1", e.authorAuth))
	assert.Equal(t, []string{"both", "mine"}, list("?is_favorited=0", e.authorAuth))
	assert.Equal(t, []string{"both"}, list("?is_in_shopping_cart=1&tags=dinner", e.authorAuth))
	assert.Equal(t, []string{"both", "theirs", "mine"}, list("?is_favorited=1", ""), "anonymous viewers are not filtered")
	assert.Equal(t, []string{"theirs"}, list("?is_favorited=2", e.authorAuth), "any non-zero number is true")
	assert.Equal(t, []string{"theirs"}, list("?is_favorited=-1&is_in_shopping_cart=0", e.authorAuth))

	for _, raw := range []string{"maybe", "true"} {
		w := e.do(http.MethodGet, "/api/recipes?is_favorited="+raw, e.authorAuth, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}
	w := e.do(http.MethodGet, "/api/recipes?author=nobody", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	e := newRecipeEnv(t)
	salt := testhelpers.CreateIngredient(t, e.db, "Salt", "g")
	soup := testhelpers.CreateRecipe(t, e.db, e.other, "soup", nil, []testhelpers.Amount{{Ingredient: salt, Amount: 10}})
	bread := testhelpers.CreateRecipe(t, e.db, e.other, "bread", nil, []testhelpers.Amount{{Ingredient: salt, Amount: 15}})
	testhelpers.AddToCart(t, e.db, e.author, soup)
	testhelpers.AddToCart(t, e.db, e.author, bread)

	w := e.do(http.MethodGet, "/api/recipes/download_shopping_cart", e.authorAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Shopping list\n\n- Salt: 25 g\n", w.Body.String())
}
