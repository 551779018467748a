package service

import (
	"context"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T, rdb *redis.Client) (*AuthService, *testEnv) {
	env := newTestEnv(t)
	return NewAuthService(env.store, testSecret, time.Hour, rdb, logger.Discard()), env
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:     "Alice@Example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "wonderland",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t, nil)
	ctx := context.Background()

	user, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "wonderland", user.PasswordHash)

	_, err = auth.Register(ctx, validRegistration())
	assert.ErrorIs(t, err, apperror.ErrConflict)

	token, err := auth.Login(ctx, "ALICE@example.com", "wonderland")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, user.ID.String(), claims.Subject)

	_, err = auth.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "wonderland")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuthService(t, nil)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"bad username", func(in *RegisterInput) { in.Username = "has space" }, "username"},
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }, "first_name"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "last_name"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)
			_, err := auth.Register(context.Background(), in)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	auth, env := newAuthService(t, nil)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "alice")

	_, err := auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(env.store, "another-secret", time.Hour, nil, logger.Discard())
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired token")
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	auth, env := newAuthService(t, nil)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "alice")

	token, err := auth.Login(ctx, user.Email, testhelpers.Password)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestLogoutRevokesTokenInRedis(t *testing.T) {
	rdb := testhelpers.SetupRedis(t)
	auth, env := newAuthService(t, rdb)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "alice")

	token, err := auth.Login(ctx, user.Email, testhelpers.Password)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ttl, err := rdb.TTL(ctx, revokedKeyPrefix+claims.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)

	fresh, err := auth.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, fresh)
	assert.NoError(t, err, "other tokens of the user stay valid")
}

func TestGetUser(t *testing.T) {
	auth, env := newAuthService(t, nil)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "alice")

	got, err := auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = auth.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
