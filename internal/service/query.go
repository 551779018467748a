package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
	"github.com/google/uuid"
)

// MembershipKind selects the favorite set or the shopping cart
type MembershipKind = models.MembershipKind

const (
	KindFavorite = models.KindFavorite
	KindCart     = models.KindCart
)

// RecipeFilter narrows a recipe listing. Nil fields are ignored.
type RecipeFilter struct {
	ViewerID    *uuid.UUID
	AuthorID    *uuid.UUID
	TagSlugs    []string
	IsFavorited *bool
	IsInCart    *bool
}

// IngredientAmount is one ingredient of a recipe with its amount
type IngredientAmount struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListItem is one aggregated line of a shopping list
type ShoppingListItem struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Unit   string `json:"measurement_unit"`
}

// QueryEngine answers read-only questions about recipe collections. Results
// are id sets or small tuples so callers can combine them before a single
// final fetch.
type QueryEngine struct {
	store repository.Store
}

func NewQueryEngine(store repository.Store) *QueryEngine {
	return &QueryEngine{store: store}
}

// AllRecipeIDs returns the id of every recipe
func (q *QueryEngine) AllRecipeIDs(ctx context.Context) (IDSet, error) {
	ids, err := q.store.AllRecipeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipe ids: %w", err)
	}
	return NewIDSet(ids...), nil
}

// RecipeIDsByTags returns the recipes carrying at least one of the slugs.
// No slugs means no recipes.
func (q *QueryEngine) RecipeIDsByTags(ctx context.Context, tagSlugs []string) (IDSet, error) {
	if len(tagSlugs) == 0 {
		return IDSet{}, nil
	}
	ids, err := q.store.RecipeIDsByTagSlugs(ctx, tagSlugs)
	if err != nil {
		return nil, fmt.Errorf("recipes by tags: %w", err)
	}
	return NewIDSet(ids...), nil
}

// FavoriteOrCartRecipeIDs returns the user's favorite or cart recipes. An
// anonymous user has an empty set.
func (q *QueryEngine) FavoriteOrCartRecipeIDs(ctx context.Context, userID *uuid.UUID, kind MembershipKind) (IDSet, error) {
	if userID == nil {
		return IDSet{}, nil
	}
	ids, err := q.store.MemberRecipeIDs(ctx, kind, *userID)
	if err != nil {
		return nil, fmt.Errorf("%s recipe ids: %w", kind, err)
	}
	return NewIDSet(ids...), nil
}

// FilterRecipes applies every present criterion of f to base. All criteria
// are ANDed; a false membership flag removes the members. Membership flags
// are ignored for an anonymous viewer.
func (q *QueryEngine) FilterRecipes(ctx context.Context, base IDSet, f RecipeFilter) (IDSet, error) {
	result := base

	if f.AuthorID != nil {
		ids, err := q.store.RecipeIDsByAuthor(ctx, *f.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("recipes by author: %w", err)
		}
		result = result.Intersect(NewIDSet(ids...))
	}

	if len(f.TagSlugs) > 0 {
		tagged, err := q.RecipeIDsByTags(ctx, f.TagSlugs)
		if err != nil {
			return nil, err
		}
		result = result.Intersect(tagged)
	}

	if f.ViewerID == nil {
		return result, nil
	}

	for _, c := range []struct {
		flag *bool
		kind MembershipKind
	}{
		{f.IsFavorited, KindFavorite},
		{f.IsInCart, KindCart},
	} {
		if c.flag == nil {
			continue
		}
		members, err := q.FavoriteOrCartRecipeIDs(ctx, f.ViewerID, c.kind)
		if err != nil {
			return nil, err
		}
		if *c.flag {
			result = result.Intersect(members)
		} else {
			result = result.Subtract(members)
		}
	}
	return result, nil
}

// RecipeIngredientsWithAmounts lists a recipe's ingredients in the order
// they were added.
func (q *QueryEngine) RecipeIngredientsWithAmounts(ctx context.Context, recipeID uint) ([]IngredientAmount, error) {
	rows, err := q.store.IngredientRows(ctx, []uint{recipeID})
	if err != nil {
		return nil, fmt.Errorf("recipe ingredients: %w", err)
	}
	out := make([]IngredientAmount, 0, len(rows))
	for _, r := range rows {
		out = append(out, IngredientAmount{ID: r.IngredientID, Name: r.Name, MeasurementUnit: r.Unit, Amount: r.Amount})
	}
	return out, nil
}

// AggregateShoppingList sums the ingredients of every recipe in the user's
// cart. Rows are merged by ingredient name and keep first-seen order.
func (q *QueryEngine) AggregateShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	cart, err := q.FavoriteOrCartRecipeIDs(ctx, &userID, KindCart)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return []ShoppingListItem{}, nil
	}
	rows, err := q.store.IngredientRows(ctx, cart.Sorted())
	if err != nil {
		return nil, fmt.Errorf("cart ingredients: %w", err)
	}
	return aggregateShoppingRows(rows), nil
}

func aggregateShoppingRows(rows []repository.IngredientRow) []ShoppingListItem {
	items := make([]ShoppingListItem, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		if i, ok := index[r.Name]; ok {
			items[i].Amount += r.Amount
			continue
		}
		index[r.Name] = len(items)
		items = append(items, ShoppingListItem{Name: r.Name, Amount: r.Amount, Unit: r.Unit})
	}
	return items
}

// SubscriberRecipeIDs returns the followed user's recipes newest first,
// truncated to limit when limit > 0.
func (q *QueryEngine) SubscriberRecipeIDs(ctx context.Context, followedUserID uuid.UUID, limit int) ([]uint, error) {
	ids, err := q.store.LatestRecipeIDsByAuthor(ctx, followedUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("subscriber recipes: %w", err)
	}
	return ids, nil
}

// RecipesCount counts the recipes authored by a user
func (q *QueryEngine) RecipesCount(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return q.store.CountRecipesByAuthor(ctx, authorID)
}

// FavoritedCount counts how many users favorited a recipe
func (q *QueryEngine) FavoritedCount(ctx context.Context, recipeID uint) (int64, error) {
	return q.store.CountMembers(ctx, KindFavorite, recipeID)
}

// IsMember reports whether the viewer has the recipe in the given set.
// Anonymous viewers have nothing.
func (q *QueryEngine) IsMember(ctx context.Context, viewerID *uuid.UUID, kind MembershipKind, recipeID uint) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	return q.store.IsMember(ctx, kind, *viewerID, recipeID)
}
