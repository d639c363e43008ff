package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/models"
	"github.com/shopmaster/storefront/internal/transport"
)

type UserService struct {
	DB     *gorm.DB
	Policy auth.RolePolicy
}

// EnsureUser creates the account lazily on first successful sign-in. The
// role comes from the injected policy, never from the client.
func (s *UserService) EnsureUser(ctx context.Context, email, name string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, fmt.Errorf("%w: email is required", ErrValidation)
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user = models.User{
		Email: email,
		Name:  name,
		Role:  s.Policy(email),
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (s *UserService) GetUser(ctx context.Context, caller auth.Identity, id uint) (*models.User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, fmt.Errorf("%w: not authorized", ErrForbidden)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, caller auth.Identity, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, fmt.Errorf("%w: not authorized", ErrForbidden)
	}
	if req.Role != nil && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: not authorized to change roles", ErrForbidden)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleUser {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}

	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser is admin-only, and an admin cannot remove their own account.
func (s *UserService) DeleteUser(ctx context.Context, caller auth.Identity, id uint) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: not authorized", ErrForbidden)
	}
	if caller.UserID == id {
		return fmt.Errorf("%w: cannot delete your own account", ErrValidation)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}

	return s.DB.WithContext(ctx).Delete(&models.User{}, id).Error
}

func (s *UserService) UpdateName(ctx context.Context, userID uint, name string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	user.Name = name
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Statistics(ctx context.Context, userID uint) (*transport.UserStatistics, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	var spent decimal.Decimal
	row := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total), 0)").
		Row()
	if err := row.Scan(&spent); err != nil {
		return nil, err
	}

	return &transport.UserStatistics{TotalOrders: count, TotalSpent: spent}, nil
}
