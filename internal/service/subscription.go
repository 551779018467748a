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

// SubscriptionService manages directed follow edges between users
type SubscriptionService struct {
	store   repository.Store
	query   *QueryEngine
	metrics metrics.Recorder
	log     *slog.Logger
}

func NewSubscriptionService(store repository.Store, query *QueryEngine, recorder metrics.Recorder, log *slog.Logger) *SubscriptionService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &SubscriptionService{store: store, query: query, metrics: recorder, log: log}
}

// Subscribe makes userID follow targetID. Duplicates are rejected by the
// store's unique index, not by a prior lookup.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, targetID uuid.UUID) error {
	if userID == targetID {
		return ErrSelfSubscription
	}
	if err := s.requireUser(ctx, targetID); err != nil {
		return err
	}

	if err := s.store.CreateSubscription(ctx, userID, targetID); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrAlreadySubscribed
		}
		return fmt.Errorf("subscribe: %w", err)
	}

	s.metrics.RecordSubscription("subscribe")
	s.log.Info("user subscribed", slog.String("user_id", userID.String()), slog.String("target_id", targetID.String()))
	return nil
}

// Unsubscribe removes the edge from userID to targetID
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, targetID uuid.UUID) error {
	if err := s.requireUser(ctx, targetID); err != nil {
		return err
	}

	n, err := s.store.DeleteSubscription(ctx, userID, targetID)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	if n == 0 {
		return ErrNotSubscribed
	}

	s.metrics.RecordSubscription("unsubscribe")
	s.log.Info("user unsubscribed", slog.String("user_id", userID.String()), slog.String("target_id", targetID.String()))
	return nil
}

func (s *SubscriptionService) requireUser(ctx context.Context, id uuid.UUID) error {
	exists, err := s.store.UserExists(ctx, id)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if !exists {
		return apperror.NotFound("user", id)
	}
	return nil
}

// ListSubscriptions returns the users userID follows
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.store.SubscribedIDs(ctx, userID)
}

// ListFollowers returns the users following userID
func (s *SubscriptionService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.store.FollowerIDs(ctx, userID)
}

// IsSubscribed reports whether the viewer follows targetID. Anonymous
// viewers follow nobody.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, viewerID *uuid.UUID, targetID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	return s.store.SubscriptionExists(ctx, *viewerID, targetID)
}

// SubscriptionEntry is one followed user with a preview of their recipes
type SubscriptionEntry struct {
	User         models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// SubscriptionFeed lists the followed users in subscription order, each
// with at most recipesLimit of their newest recipes (all when <= 0).
func (s *SubscriptionService) SubscriptionFeed(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]SubscriptionEntry, error) {
	ids, err := s.store.SubscribedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load subscribed users: %w", err)
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	feed := make([]SubscriptionEntry, 0, len(ids))
	for _, id := range ids {
		user, ok := byID[id]
		if !ok {
			continue
		}
		recipeIDs, err := s.query.SubscriberRecipeIDs(ctx, id, recipesLimit)
		if err != nil {
			return nil, err
		}
		recipes, err := s.store.ListRecipes(ctx, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("load recipes: %w", err)
		}
		count, err := s.query.RecipesCount(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("count recipes: %w", err)
		}
		feed = append(feed, SubscriptionEntry{User: user, Recipes: recipes, RecipesCount: count})
	}
	return feed, nil
}
