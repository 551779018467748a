package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
	"github.com/google/uuid"
)

// MembershipService adds and removes recipes from a user's favorites or
// shopping cart. Both sets behave the same and are selected by kind.
type MembershipService struct {
	store   repository.Store
	metrics metrics.Recorder
	log     *slog.Logger
}

func NewMembershipService(store repository.Store, recorder metrics.Recorder, log *slog.Logger) *MembershipService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &MembershipService{store: store, metrics: recorder, log: log}
}

// Add puts the recipe into the set and returns it
func (s *MembershipService) Add(ctx context.Context, kind MembershipKind, userID uuid.UUID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, apperror.NotFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	if err := s.store.AddMember(ctx, kind, userID, recipeID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("add to %s: %w", kind, err)
	}

	s.metrics.RecordMembership(kind.String(), "add")
	s.log.Debug("membership added", slog.String("kind", kind.String()), slog.Uint64("recipe_id", uint64(recipeID)))
	return recipe, nil
}

// Remove takes the recipe out of the set
func (s *MembershipService) Remove(ctx context.Context, kind MembershipKind, userID uuid.UUID, recipeID uint) error {
	exists, err := s.store.RecipeExists(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("look up recipe: %w", err)
	}
	if !exists {
		return apperror.NotFound("recipe", recipeID)
	}

	n, err := s.store.RemoveMember(ctx, kind, userID, recipeID)
	if err != nil {
		return fmt.Errorf("remove from %s: %w", kind, err)
	}
	if n == 0 {
		return ErrNotMember
	}

	s.metrics.RecordMembership(kind.String(), "remove")
	return nil
}
