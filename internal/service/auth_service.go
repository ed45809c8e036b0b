package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/security"
)

// timingPadSecret seeds the digest compared against when the email is unknown,
// so a miss costs the same bcrypt round as a wrong password.
const timingPadSecret = "conference-manager-timing-pad"

type AuthOptions struct {
	OpenRegistration bool
	QueryTimeout     time.Duration
}

type AuthService struct {
	users            UserStore
	hasher           *security.PasswordHasher
	tokens           *security.TokenManager
	openRegistration bool
	queryTimeout     time.Duration
	padDigest        string
}

func NewAuthService(users UserStore, hasher *security.PasswordHasher, tokens *security.TokenManager, opts AuthOptions) (*AuthService, error) {
	if users == nil || hasher == nil || tokens == nil {
		return nil, errors.New("auth service requires a user store, hasher and token manager")
	}

	pad, err := hasher.Hash(timingPadSecret)
	if err != nil {
		return nil, fmt.Errorf("prepare timing pad: %w", err)
	}

	return &AuthService{
		users:            users,
		hasher:           hasher,
		tokens:           tokens,
		openRegistration: opts.OpenRegistration,
		queryTimeout:     opts.QueryTimeout,
		padDigest:        pad,
	}, nil
}

func (s *AuthService) OpenRegistration() bool {
	return s.openRegistration
}

// Authenticate checks an email/password pair. Every failure collapses into
// ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email string, password string) (model.User, error) {
	email = strings.TrimSpace(email)

	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.FindByEmail(qctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, fmt.Errorf("authenticate: %w", err)
		}
		s.hasher.Verify(password, s.padDigest)
		return model.User{}, model.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) IssueSession(user model.User) (model.Session, error) {
	token, expiresAt, err := s.tokens.Issue(strconv.FormatInt(user.ID, 10), 0)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(s.tokens.DefaultTTL().Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	return s.IssueSession(user)
}

// Resolve loads the user a token subject refers to. It never caches and
// never mutates.
func (s *AuthService) Resolve(ctx context.Context, subject string) (model.User, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(subject), 10, 64)
	if err != nil || id <= 0 {
		return model.User{}, model.ErrInvalidToken
	}

	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.users.FindByID(qctx, id)
}

func (s *AuthService) ResolveToken(ctx context.Context, token string) (model.User, error) {
	subject, err := s.tokens.Decode(token)
	if err != nil {
		return model.User{}, err
	}

	return s.Resolve(ctx, subject)
}

// Register creates a disabled Author account from the open sign-up form.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if !s.openRegistration {
		return model.User{}, model.ErrRegistrationDisabled
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	ts := now()
	user := model.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		PasswordHash:  digest,
		Role:          model.RoleAuthor,
		Enabled:       false,
		InstitutionID: req.InstitutionID,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.users.Create(qctx, user)
}
