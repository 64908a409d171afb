package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func userNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(ErrNotFound, "User not found")
	}
	return err
}

func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	return u, nil
}

func (s *UserService) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*models.User, error) {
	email = normalizeEmail(email)

	u, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	if u.Email == email {
		return u, nil
	}

	if other, err := s.Repo.UserByEmail(ctx, email); err == nil && other.ID != id {
		return nil, fail(ErrConflict, "Email is already in use")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Repo.UpdateUser(ctx, id, map[string]any{"email": email}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fail(ErrConflict, "Email is already in use")
		}
		return nil, userNotFound(err)
	}
	u.Email = email
	return u, nil
}

func (s *UserService) List(ctx context.Context, searchTerm string, page, limit int) ([]models.User, util.Meta, error) {
	offset, limit := util.Calculate(page, limit)
	users, total, err := s.Repo.ListUsers(ctx, searchTerm, offset, limit)
	if err != nil {
		return nil, util.Meta{}, err
	}
	return users, util.NewMeta(page, limit, total), nil
}

func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	r, err := authz.ParseRole(role)
	if err != nil {
		return nil, fail(ErrValidation, "Role must be one of: user, admin")
	}

	if err := s.Repo.UpdateUser(ctx, id, map[string]any{"role": r.String()}); err != nil {
		return nil, userNotFound(err)
	}
	u, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}

	events.Publish(ctx, s.Events, events.TopicUser, id.String(), events.New("user_role_changed", map[string]any{
		"user_id": id.String(),
		"role":    u.Role,
	}))
	logging.FromContext(ctx).Info("user_role_changed", "svc", "users.set_role", "user_id", id, "role", u.Role)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return userNotFound(err)
	}
	events.Publish(ctx, s.Events, events.TopicUser, id.String(), events.New("user_deleted", map[string]any{
		"user_id": id.String(),
	}))
	return nil
}
