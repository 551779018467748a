package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
)

// CatalogService reads tags and ingredients
type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.store.GetTag(ctx, id)
	if err != nil {
		if errIsNotFound(err) {
			return nil, apperror.NotFound("tag", id)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// SearchIngredients returns the ingredients whose name starts with prefix,
// ordered by name. An empty prefix returns everything.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	ingredients, err := s.store.SearchIngredients(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		if errIsNotFound(err) {
			return nil, apperror.NotFound("ingredient", id)
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ingredient, nil
}
