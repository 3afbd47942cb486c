package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/google/uuid"
)

type UserUsecase struct {
	users  domain.UserRepository
	tokens domain.PushTokenRepository
}

func NewUserUsecase(users domain.UserRepository, tokens domain.PushTokenRepository) *UserUsecase {
	return &UserUsecase{users: users, tokens: tokens}
}

func (u *UserUsecase) Create(ctx context.Context, email, username string) (*domain.User, error) {
	user := &domain.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Username: strings.TrimSpace(username),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) UpdateProfile(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Username = strings.TrimSpace(username)
	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the account; favorites, logs, notifications and the push
// token cascade away with it.
func (u *UserUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// RegisterPushToken stores the device's Expo token, replacing any previous
// one. Tokens that do not look like Expo tokens are rejected up front so
// the dispatcher never wastes a send on them.
func (u *UserUsecase) RegisterPushToken(ctx context.Context, userID uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if !domain.ValidPushToken(token) {
		return ErrInvalidPushToken
	}
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return u.tokens.Upsert(ctx, &domain.PushToken{UserID: userID, Token: token})
}
