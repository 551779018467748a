package repository

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
)

// membershipRow returns a row of the table backing kind. Empty ids give
// a bare model for queries.
func membershipRow(kind models.MembershipKind, userID uuid.UUID, recipeID uint) (interface{}, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMembership, kind)
	}
	if kind == models.KindFavorite {
		return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}, nil
	}
	return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}, nil
}

func membershipModel(kind models.MembershipKind) (interface{}, error) {
	return membershipRow(kind, uuid.Nil, 0)
}

func (s *GormStore) AddMember(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) error {
	row, err := membershipRow(kind, userID, recipeID)
	if err != nil {
		return err
	}
	return s.conn(ctx).Create(row).Error
}

func (s *GormStore) RemoveMember(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (int64, error) {
	model, err := membershipModel(kind)
	if err != nil {
		return 0, err
	}
	res := s.conn(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(model)
	return res.RowsAffected, res.Error
}

func (s *GormStore) IsMember(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeID uint) (bool, error) {
	model, err := membershipModel(kind)
	if err != nil {
		return false, err
	}
	var count int64
	err = s.conn(ctx).Model(model).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) MemberRecipeIDs(ctx context.Context, kind models.MembershipKind, userID uuid.UUID) ([]uint, error) {
	model, err := membershipModel(kind)
	if err != nil {
		return nil, err
	}
	var ids []uint
	err = s.conn(ctx).Model(model).Where("user_id = ?", userID).Order("id").Pluck("recipe_id", &ids).Error
	return ids, err
}

func (s *GormStore) CountMembers(ctx context.Context, kind models.MembershipKind, recipeID uint) (int64, error) {
	model, err := membershipModel(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.conn(ctx).Model(model).Where("recipe_id = ?", recipeID).Count(&count).Error
	return count, err
}

func (s *GormStore) DeleteMembershipsForRecipe(ctx context.Context, recipeID uint) error {
	for _, kind := range []models.MembershipKind{models.KindFavorite, models.KindCart} {
		model, err := membershipModel(kind)
		if err != nil {
			return err
		}
		if err := s.conn(ctx).Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
