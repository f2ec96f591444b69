package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"quickbite/order-svc/internal/auth"
	"quickbite/order-svc/internal/domain"
)

type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	TelegramChatID string `json:"telegram_chat_id"`
}

type AccountService struct {
	store  AccountStore
	tokens TokenIssuer
}

func NewAccountService(store AccountStore, tokens TokenIssuer) *AccountService {
	return &AccountService{store: store, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, "", fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return nil, "", err
	}

	user := &domain.User{
		Email:          email,
		PasswordHash:   hash,
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		Role:           domain.RoleUser,
		TelegramChatID: strings.TrimSpace(req.TelegramChatID),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login reports a wrong password and an unknown email identically.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AccountService) Me(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	return s.store.GetUser(ctx, caller.UserID)
}

func (s *AccountService) ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error {
	user, err := s.store.GetUser(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrUnauthorized)
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return err
	}
	return s.store.UpdatePassword(ctx, caller.UserID, hash)
}
