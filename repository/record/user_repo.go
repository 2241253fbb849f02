package record

import (
	"context"
	"strings"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
)

type userRepository struct {
	store recordstore.Store
}

func NewUserRepository(store recordstore.Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	found, err := readJSON(ctx, r.store, recordstore.UserKey(id), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	ids, err := listOwners(ctx, r.store, recordstore.UsersPrefix)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		var user domain.User
		found, err := readJSON(ctx, r.store, recordstore.UserKey(id), &user)
		if err != nil {
			return nil, err
		}
		if found {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	return writeJSON(ctx, r.store, recordstore.UserKey(user.ID), user)
}
