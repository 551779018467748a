package repository

import (
	"context"

	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.conn(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (s *GormStore) SaveRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.conn(ctx).Omit(clause.Associations).Save(recipe).Error
}

func (s *GormStore) DeleteRecipe(ctx context.Context, id uint) (int64, error) {
	res := s.conn(ctx).Delete(&models.Recipe{}, id)
	return res.RowsAffected, res.Error
}

// withDetails preloads everything a recipe response shows
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("RecipeTags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("RecipeTags.Tag")
}

func (s *GormStore) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(s.conn(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (s *GormStore) ListRecipes(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	var recipes []models.Recipe
	err := withDetails(s.conn(ctx)).
		Where("id IN ?", ids).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) RecipeExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) AllRecipeIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Recipe{}).Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) RecipeIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) LatestRecipeIDsByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]uint, error) {
	q := s.conn(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ids []uint
	err := q.Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (s *GormStore) RecipeIDsByTagSlugs(ctx context.Context, slugs []string) ([]uint, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := s.conn(ctx).Model(&models.RecipeTag{}).
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("tags.slug IN ?", slugs).
		Pluck("recipe_tags.recipe_id", &ids).Error
	return ids, err
}

func (s *GormStore) CreateRecipeTags(ctx context.Context, rows []models.RecipeTag) error {
	if len(rows) == 0 {
		return nil
	}
	return s.conn(ctx).Omit(clause.Associations).Create(&rows).Error
}

func (s *GormStore) DeleteRecipeTags(ctx context.Context, recipeID uint) error {
	return s.conn(ctx).Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error
}

func (s *GormStore) CreateRecipeIngredients(ctx context.Context, rows []models.RecipeIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	return s.conn(ctx).Omit(clause.Associations).Create(&rows).Error
}

func (s *GormStore) DeleteRecipeIngredients(ctx context.Context, recipeID uint) error {
	return s.conn(ctx).Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error
}

func (s *GormStore) IngredientRows(ctx context.Context, recipeIDs []uint) ([]IngredientRow, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	var rows []IngredientRow
	err := s.conn(ctx).
		Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, ingredients.name, measurement_units.name AS unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN measurement_units ON measurement_units.id = ingredients.measurement_unit_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("recipe_ingredients.id").
		Scan(&rows).Error
	return rows, err
}
