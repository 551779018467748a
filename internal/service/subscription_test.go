package service

import (
	"context"
	"testing"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")

	require.NoError(t, env.subscriptions.Subscribe(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, env.subscriptions.Subscribe(ctx, alice.ID, bob.ID), ErrAlreadySubscribed)

	ok, err := env.subscriptions.IsSubscribed(ctx, &alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.subscriptions.IsSubscribed(ctx, &bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")
	ok, err = env.subscriptions.IsSubscribed(ctx, nil, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	followers, err := env.subscriptions.ListFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{alice.ID}, followers)

	require.NoError(t, env.subscriptions.Unsubscribe(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, env.subscriptions.Unsubscribe(ctx, alice.ID, bob.ID), ErrNotSubscribed)

	subs, err := env.subscriptions.ListSubscriptions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubscribeRejectsSelfAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, env.db, "alice")

	for i := 0; i < 2; i++ {
		err := env.subscriptions.Subscribe(ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, ErrSelfSubscription)
		assert.Equal(t, "validation_error", apperror.Kind(err))
	}

	err := env.subscriptions.Subscribe(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	err = env.subscriptions.Unsubscribe(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSubscriptionFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reader := testhelpers.CreateUser(t, env.db, "reader")
	first := testhelpers.CreateUser(t, env.db, "first")
	second := testhelpers.CreateUser(t, env.db, "second")
	testhelpers.CreateUser(t, env.db, "stranger")

	for _, name := range []string{"one", "two", "three"} {
		testhelpers.CreateRecipe(t, env.db, first, name, nil, nil)
	}
	latest := testhelpers.CreateRecipe(t, env.db, first, "four", nil, nil)

	require.NoError(t, env.subscriptions.Subscribe(ctx, reader.ID, first.ID))
	require.NoError(t, env.subscriptions.Subscribe(ctx, reader.ID, second.ID))

	feed, err := env.subscriptions.SubscriptionFeed(ctx, reader.ID, 2)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, first.ID, feed[0].User.ID)
	assert.EqualValues(t, 4, feed[0].RecipesCount)
	require.Len(t, feed[0].Recipes, 2)
	assert.Equal(t, latest.ID, feed[0].Recipes[0].ID)

	assert.Equal(t, second.ID, feed[1].User.ID)
	assert.Zero(t, feed[1].RecipesCount)
	assert.Empty(t, feed[1].Recipes)

	feed, err = env.subscriptions.SubscriptionFeed(ctx, reader.ID, 0)
	require.NoError(t, err)
	assert.Len(t, feed[0].Recipes, 4)
}

func TestDuplicateSubscriptionKeepsOneEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")
	testhelpers.Subscribe(t, env.db, alice, bob)

	assert.ErrorIs(t, env.subscriptions.Subscribe(ctx, alice.ID, bob.ID), ErrAlreadySubscribed)

	var count int64
	env.db.Model(&models.UserSubscription{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
