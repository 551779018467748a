package service

import (
	"errors"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/repository"
)

// Domain errors. Compare with errors.Is.
var (
	ErrSelfSubscription  = apperror.ValidationFailed("user", "you cannot subscribe to yourself")
	ErrAlreadySubscribed = apperror.Conflict("you are already subscribed to this user")
	ErrNotSubscribed     = apperror.ValidationFailed("user", "you are not subscribed to this user")

	ErrAlreadyMember = apperror.Conflict("recipe is already in the list")
	ErrNotMember     = apperror.ValidationFailed("recipe", "recipe is not in the list")

	ErrInvalidCredentials = apperror.Unauthorized("invalid credentials")
	ErrInvalidToken       = apperror.Unauthorized("invalid or expired token")
)

// errIsNotFound reports whether err is a repository miss
func errIsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
