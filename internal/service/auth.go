package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/agro_shop/internal/hash"
	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/mykafka"
	"github.com/Skotchmaster/agro_shop/internal/repo"
)

const LoginMethodEmail = "email"

type AuthService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

type RegisterInput struct {
	Name     string `validate:"required,max=255"`
	Email    string `validate:"required,email,max=320"`
	Password string `validate:"required,min=6,max=72"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("service", "auth.register")

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if !s.Repo.Available() {
		return nil, ErrUnavailable
	}

	_, err := s.Repo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	method := LoginMethodEmail
	now := time.Now().UTC()
	openID := uuid.NewString()
	if err := s.Repo.UpsertUser(ctx, repo.UpsertUserInput{
		OpenID:       openID,
		Name:         &in.Name,
		Email:        &in.Email,
		LoginMethod:  &method,
		PasswordHash: &pwHash,
		LastSignedIn: &now,
	}); err != nil {
		return nil, translate(err)
	}

	user, err := s.Repo.GetUserByOpenID(ctx, openID)
	if err != nil {
		return nil, translate(err)
	}

	l.Info("register_success", "user_id", user.ID)
	publish(ctx, s.Events, mykafka.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"openID": user.OpenID,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("service", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}
	if !s.Repo.Available() {
		return nil, ErrUnavailable
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn("login_failed", "reason", "unknown email")
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	now := time.Now().UTC()
	if err := s.Repo.UpsertUser(ctx, repo.UpsertUserInput{OpenID: user.OpenID, LastSignedIn: &now}); err != nil {
		return nil, translate(err)
	}
	user.LastSignedIn = now

	l.Info("login_success", "user_id", user.ID)
	publish(ctx, s.Events, mykafka.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})
	return user, nil
}

func (s *AuthService) UserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	user, err := s.Repo.GetUserByOpenID(ctx, openID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}
