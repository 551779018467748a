package service

import (
	"context"
	"testing"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService(t *testing.T) {
	env := newTestEnv(t)
	catalog := NewCatalogService(env.store)
	ctx := context.Background()

	tag := testhelpers.CreateTag(t, env.db, "breakfast")
	testhelpers.CreateIngredient(t, env.db, "sugar", "g")
	testhelpers.CreateIngredient(t, env.db, "salt", "g")
	testhelpers.CreateIngredient(t, env.db, "pepper", "g")

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	got, err := catalog.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)
	_, err = catalog.GetTag(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	found, err := catalog.SearchIngredients(ctx, "s")
	require.NoError(t, err)
	var names []string
	for _, ing := range found {
		names = append(names, ing.Name)
	}
	assert.ElementsMatch(t, []string{"sugar", "salt"}, names)

	_, err = catalog.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
