package repository

import (
	"context"
	"errors"

	"github.com/foodgram/backend/internal/models"
)

func (s *GormStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.conn(ctx).Order("id").Find(&tags).Error
	return tags, err
}

func (s *GormStore) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.conn(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (s *GormStore) ExistingTagIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := s.conn(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (s *GormStore) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := s.conn(ctx).Preload("MeasurementUnit").Order("name")
	if prefix != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, prefixPattern(prefix))
	}
	var ingredients []models.Ingredient
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (s *GormStore) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.conn(ctx).Preload("MeasurementUnit").First(&ingredient, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

func (s *GormStore) ExistingIngredientIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := s.conn(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (s *GormStore) FirstOrCreateUnit(ctx context.Context, name string) (*models.MeasurementUnit, bool, error) {
	var unit models.MeasurementUnit
	err := s.conn(ctx).Where("name = ?", name).First(&unit).Error
	if err == nil {
		return &unit, false, nil
	}
	if !errors.Is(translate(err), ErrNotFound) {
		return nil, false, err
	}
	unit = models.MeasurementUnit{Name: name}
	if err := s.conn(ctx).Create(&unit).Error; err != nil {
		return nil, false, err
	}
	return &unit, true, nil
}

func (s *GormStore) FirstOrCreateIngredient(ctx context.Context, name string, unitID uint) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	err := s.conn(ctx).Where("name = ?", name).First(&ingredient).Error
	if err == nil {
		return &ingredient, false, nil
	}
	if !errors.Is(translate(err), ErrNotFound) {
		return nil, false, err
	}
	ingredient = models.Ingredient{Name: name, MeasurementUnitID: unitID}
	if err := s.conn(ctx).Omit("MeasurementUnit").Create(&ingredient).Error; err != nil {
		return nil, false, err
	}
	return &ingredient, true, nil
}

func (s *GormStore) FirstOrCreateTag(ctx context.Context, tag *models.Tag) (bool, error) {
	var existing models.Tag
	err := s.conn(ctx).Where("slug = ?", tag.Slug).First(&existing).Error
	if err == nil {
		*tag = existing
		return false, nil
	}
	if !errors.Is(translate(err), ErrNotFound) {
		return false, err
	}
	if err := s.conn(ctx).Create(tag).Error; err != nil {
		return false, err
	}
	return true, nil
}
