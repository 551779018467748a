package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// Presenter turns models into responses carrying the viewer's flags
type Presenter struct {
	query         *service.QueryEngine
	subscriptions service.ISubscriptionService
}

func NewPresenter(query *service.QueryEngine, subscriptions service.ISubscriptionService) *Presenter {
	return &Presenter{query: query, subscriptions: subscriptions}
}

func (p *Presenter) User(ctx context.Context, viewer *uuid.UUID, user *models.User) (types.UserResponse, error) {
	subscribed, err := p.subscriptions.IsSubscribed(ctx, viewer, user.ID)
	if err != nil {
		return types.UserResponse{}, err
	}
	return types.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}, nil
}

func (p *Presenter) Users(ctx context.Context, viewer *uuid.UUID, users []models.User) ([]types.UserResponse, error) {
	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		resp, err := p.User(ctx, viewer, &users[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (p *Presenter) Recipe(ctx context.Context, viewer *uuid.UUID, recipe *models.Recipe) (types.RecipeResponse, error) {
	author, err := p.User(ctx, viewer, &recipe.Author)
	if err != nil {
		return types.RecipeResponse{}, err
	}
	favorited, err := p.query.IsMember(ctx, viewer, service.KindFavorite, recipe.ID)
	if err != nil {
		return types.RecipeResponse{}, err
	}
	inCart, err := p.query.IsMember(ctx, viewer, service.KindCart, recipe.ID)
	if err != nil {
		return types.RecipeResponse{}, err
	}
	favorites, err := p.query.FavoritedCount(ctx, recipe.ID)
	if err != nil {
		return types.RecipeResponse{}, err
	}

	tags := make([]types.TagResponse, 0, len(recipe.RecipeTags))
	for _, tag := range recipe.Tags() {
		tags = append(tags, Tag(tag))
	}
	lines, err := p.query.RecipeIngredientsWithAmounts(ctx, recipe.ID)
	if err != nil {
		return types.RecipeResponse{}, err
	}
	ingredients := make([]types.RecipeIngredientResponse, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, types.RecipeIngredientResponse{
			ID:              line.ID,
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return types.RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		FavoritesCount:   favorites,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func (p *Presenter) Recipes(ctx context.Context, viewer *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := p.Recipe(ctx, viewer, &recipes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Subscription renders one feed entry. The viewer follows the user by
// construction.
func (p *Presenter) Subscription(entry service.SubscriptionEntry) types.SubscriptionResponse {
	recipes := make([]types.RecipeMinifiedResponse, 0, len(entry.Recipes))
	for i := range entry.Recipes {
		recipes = append(recipes, RecipeMinified(&entry.Recipes[i]))
	}
	return types.SubscriptionResponse{
		UserResponse: types.UserResponse{
			ID:           entry.User.ID,
			Email:        entry.User.Email,
			Username:     entry.User.Username,
			FirstName:    entry.User.FirstName,
			LastName:     entry.User.LastName,
			IsSubscribed: true,
		},
		Recipes:      recipes,
		RecipesCount: entry.RecipesCount,
	}
}

func RecipeMinified(recipe *models.Recipe) types.RecipeMinifiedResponse {
	return types.RecipeMinifiedResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func Tag(tag models.Tag) types.TagResponse {
	return types.TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func Ingredient(ing models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit.Name}
}
