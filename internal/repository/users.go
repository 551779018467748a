package repository

import (
	"context"

	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
)

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.conn(ctx).Create(user).Error
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Order("username").Find(&users).Error
	return users, err
}

func (s *GormStore) GetUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.conn(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (s *GormStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateSubscription(ctx context.Context, userID, subID uuid.UUID) error {
	edge := models.UserSubscription{UserID: userID, SubID: subID}
	return s.conn(ctx).Omit("User", "Sub").Create(&edge).Error
}

func (s *GormStore) DeleteSubscription(ctx context.Context, userID, subID uuid.UUID) (int64, error) {
	res := s.conn(ctx).
		Where("user_id = ? AND sub_id = ?", userID, subID).
		Delete(&models.UserSubscription{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) SubscriptionExists(ctx context.Context, userID, subID uuid.UUID) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.UserSubscription{}).
		Where("user_id = ? AND sub_id = ?", userID, subID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) SubscribedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.conn(ctx).Model(&models.UserSubscription{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("sub_id", &ids).Error
	return ids, err
}

func (s *GormStore) FollowerIDs(ctx context.Context, subID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.conn(ctx).Model(&models.UserSubscription{}).
		Where("sub_id = ?", subID).
		Order("id").
		Pluck("user_id", &ids).Error
	return ids, err
}
