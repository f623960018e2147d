package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atelier-lms/atelier/internal/shared"
)

// Service wraps authentication business rules. Expected failures travel in
// the Result; the trailing error carries infrastructure faults only.
type Service struct {
	repo   Repository
	store  *RefreshStore
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, store *RefreshStore, tokens *TokenManager) *Service {
	return &Service{repo: repo, store: store, tokens: tokens}
}

// Login validates email/password credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (shared.Result[*shared.Error, TokenPair], error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return invalidCredentials(), nil
		}
		return shared.Result[*shared.Error, TokenPair]{}, err
	}
	if !user.Active {
		return invalidCredentials(), nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return invalidCredentials(), nil
	}
	pair, err := s.issue(ctx, user)
	if err != nil {
		return shared.Result[*shared.Error, TokenPair]{}, err
	}
	return shared.Right[*shared.Error](pair), nil
}

// Refresh rotates a refresh token and issues a fresh token pair. The old
// token is consumed whether or not issuance succeeds.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (shared.Result[*shared.Error, TokenPair], error) {
	userID, err := s.store.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenUnknown) {
			return shared.Left[*shared.Error, TokenPair](shared.UnauthorizedError("invalid refresh token")), nil
		}
		return shared.Result[*shared.Error, TokenPair]{}, err
	}
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return shared.Result[*shared.Error, TokenPair]{}, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Left[*shared.Error, TokenPair](shared.UnauthorizedError("invalid refresh token")), nil
		}
		return shared.Result[*shared.Error, TokenPair]{}, err
	}
	if !user.Active {
		return shared.Left[*shared.Error, TokenPair](shared.UnauthorizedError("invalid refresh token")), nil
	}
	pair, err := s.issue(ctx, user)
	if err != nil {
		return shared.Result[*shared.Error, TokenPair]{}, err
	}
	return shared.Right[*shared.Error](pair), nil
}

// Logout revokes a refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) (shared.Result[*shared.Error, struct{}], error) {
	if _, err := s.store.Consume(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrRefreshTokenUnknown) {
			return shared.Left[*shared.Error, struct{}](shared.UnauthorizedError("invalid refresh token")), nil
		}
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return shared.Result[*shared.Error, struct{}]{}, err
	}
	return shared.Right[*shared.Error](struct{}{}), nil
}

// PurgeExpiredSessions removes expired session records. Called from the
// background worker.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, time.Now())
}

func (s *Service) issue(ctx context.Context, user *User) (TokenPair, error) {
	access, err := s.tokens.Issue(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh := uuid.NewString()
	if err := s.store.Save(ctx, refresh, user.ID); err != nil {
		return TokenPair{}, err
	}
	if err := s.repo.CreateSession(ctx, refresh, user.ID, time.Now().Add(s.store.TTL())); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func invalidCredentials() shared.Result[*shared.Error, TokenPair] {
	return shared.Left[*shared.Error, TokenPair](shared.UnauthorizedError("invalid email or password"))
}
