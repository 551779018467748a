package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const maxRecipeNameLength = 200

// IngredientInput is one submitted ingredient line
type IngredientInput struct {
	ID     uint
	Amount int
}

// RecipeInput carries every writable recipe attribute. Image is a base64
// data URI; on update an empty Image keeps the stored one.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Tags        []uint
	Ingredients []IngredientInput
}

// RecipeService creates, replaces and deletes recipes together with their
// tag and ingredient sets. Authorship checks are left to the caller.
type RecipeService struct {
	store     repository.Store
	images    ImageStore
	sanitizer *bluemonday.Policy
	metrics   metrics.Recorder
	log       *slog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store repository.Store, images ImageStore, recorder metrics.Recorder, log *slog.Logger) *RecipeService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &RecipeService{
		store:     store,
		images:    images,
		sanitizer: bluemonday.StrictPolicy(),
		metrics:   recorder,
		log:       log,
	}
}

// CreateRecipe validates the input and stores the recipe with its join rows
// in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	tags, err := s.validate(ctx, in, true)
	if err != nil {
		return nil, err
	}

	imageRef, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(in.Name),
		Text:        s.sanitizer.Sanitize(strings.TrimSpace(in.Text)),
		Image:       imageRef,
		CookingTime: in.CookingTime,
	}
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return replaceAssociations(ctx, tx, recipe.ID, tags, in.Ingredients, false)
	})
	if err != nil {
		s.discardImage(ctx, imageRef)
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.metrics.RecordRecipeMutation("create")
	s.log.Info("recipe created", slog.Uint64("recipe_id", uint64(recipe.ID)), slog.String("author_id", authorID.String()))
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the scalar attributes and the whole tag and
// ingredient sets of a recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, apperror.NotFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	tags, err := s.validate(ctx, in, false)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	if in.Image != "" {
		if recipe.Image, err = s.saveImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}
	recipe.Name = strings.TrimSpace(in.Name)
	recipe.Text = s.sanitizer.Sanitize(strings.TrimSpace(in.Text))
	recipe.CookingTime = in.CookingTime

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.SaveRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("save recipe: %w", err)
		}
		return replaceAssociations(ctx, tx, recipe.ID, tags, in.Ingredients, true)
	})
	if err != nil {
		if recipe.Image != oldImage {
			s.discardImage(ctx, recipe.Image)
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if recipe.Image != oldImage {
		s.discardImage(ctx, oldImage)
	}

	s.metrics.RecordRecipeMutation("update")
	s.log.Info("recipe updated", slog.Uint64("recipe_id", uint64(recipe.ID)))
	return s.GetRecipe(ctx, recipe.ID)
}

// replaceAssociations writes the tag and ingredient join rows of a recipe.
// With edit set, the existing rows are deleted first.
func replaceAssociations(ctx context.Context, tx repository.Store, recipeID uint, tags []uint, ingredients []IngredientInput, edit bool) error {
	if edit {
		if err := tx.DeleteRecipeIngredients(ctx, recipeID); err != nil {
			return fmt.Errorf("clear ingredients: %w", err)
		}
		if err := tx.DeleteRecipeTags(ctx, recipeID); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
	}

	ingredientRows := make([]models.RecipeIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		ingredientRows = append(ingredientRows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: ing.ID, Amount: ing.Amount})
	}
	if err := tx.CreateRecipeIngredients(ctx, ingredientRows); err != nil {
		return fmt.Errorf("insert ingredients: %w", err)
	}

	tagRows := make([]models.RecipeTag, 0, len(tags))
	for _, id := range tags {
		tagRows = append(tagRows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.CreateRecipeTags(ctx, tagRows); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// DeleteRecipe removes a recipe, its join rows and every favorite or cart
// entry pointing at it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID uint) error {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		if errIsNotFound(err) {
			return apperror.NotFound("recipe", recipeID)
		}
		return fmt.Errorf("load recipe: %w", err)
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.DeleteMembershipsForRecipe(ctx, recipeID); err != nil {
			return err
		}
		if err := tx.DeleteRecipeIngredients(ctx, recipeID); err != nil {
			return err
		}
		if err := tx.DeleteRecipeTags(ctx, recipeID); err != nil {
			return err
		}
		n, err := tx.DeleteRecipe(ctx, recipeID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("recipe", recipeID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	s.discardImage(ctx, recipe.Image)
	s.metrics.RecordRecipeMutation("delete")
	s.log.Info("recipe deleted", slog.Uint64("recipe_id", uint64(recipeID)))
	return nil
}

// GetRecipe loads one recipe with its author, tags and ingredients
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		if errIsNotFound(err) {
			return nil, apperror.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// ListRecipes loads the given recipes newest first
func (s *RecipeService) ListRecipes(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// validate checks the input and returns the tag ids with duplicates removed
func (s *RecipeService) validate(ctx context.Context, in RecipeInput, creating bool) ([]uint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len([]rune(name)) > maxRecipeNameLength {
		return nil, apperror.ValidationFailed("name", fmt.Sprintf("name must be at most %d characters", maxRecipeNameLength))
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperror.ValidationFailed("text", "text is required")
	}
	if creating && in.Image == "" {
		return nil, apperror.ValidationFailed("image", "image is required")
	}
	if !inRange(in.CookingTime) {
		return nil, apperror.ValidationFailed("cooking_time",
			fmt.Sprintf("cooking_time must be between %d and %d", models.MinValue, models.MaxValue))
	}

	if len(in.Tags) == 0 {
		return nil, apperror.ValidationFailed("tags", "at least one tag is required")
	}
	tags := make([]uint, 0, len(in.Tags))
	seenTags := make(map[uint]bool, len(in.Tags))
	for _, id := range in.Tags {
		if !seenTags[id] {
			seenTags[id] = true
			tags = append(tags, id)
		}
	}

	if len(in.Ingredients) == 0 {
		return nil, apperror.ValidationFailed("ingredients", "at least one ingredient is required")
	}
	ingredientIDs := make([]uint, 0, len(in.Ingredients))
	seenIngredients := make(map[uint]bool, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if seenIngredients[ing.ID] {
			return nil, apperror.ValidationFailed("ingredients", fmt.Sprintf("ingredient %d is listed twice", ing.ID))
		}
		seenIngredients[ing.ID] = true
		if !inRange(ing.Amount) {
			return nil, apperror.ValidationFailed("amount",
				fmt.Sprintf("amount of ingredient %d must be between %d and %d", ing.ID, models.MinValue, models.MaxValue))
		}
		ingredientIDs = append(ingredientIDs, ing.ID)
	}

	found, err := s.store.ExistingTagIDs(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("check tags: %w", err)
	}
	if id, ok := firstMissing(tags, found); ok {
		return nil, apperror.ValidationFailed("tags", fmt.Sprintf("tag %d does not exist", id))
	}

	found, err = s.store.ExistingIngredientIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("check ingredients: %w", err)
	}
	if id, ok := firstMissing(ingredientIDs, found); ok {
		return nil, apperror.ValidationFailed("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
	}
	return tags, nil
}

func inRange(v int) bool {
	return v >= models.MinValue && v <= models.MaxValue
}

// firstMissing returns the first id of want that is absent from have
func firstMissing(want, have []uint) (uint, bool) {
	present := NewIDSet(have...)
	for _, id := range want {
		if !present.Has(id) {
			return id, true
		}
	}
	return 0, false
}

func (s *RecipeService) saveImage(ctx context.Context, dataURI string) (string, error) {
	data, contentType, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	ref, err := s.images.Save(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return ref, nil
}

// discardImage removes an image that is no longer referenced. Failures are
// only logged since the recipe change already committed or was rolled back.
func (s *RecipeService) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		s.log.Warn("failed to delete image", slog.String("ref", ref), slog.String("error", err.Error()))
	}
}
