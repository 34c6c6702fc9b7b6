package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"kidsmoney/internal/credentials"
	"kidsmoney/internal/models"
	"kidsmoney/internal/security"
	"kidsmoney/internal/validation"
)

// AuthResult is returned by the parent sign-in flows
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// KidProfile is a kid as the kid sees themselves
type KidProfile struct {
	models.Kid
	Role string `json:"role"`
}

func newKidProfile(kid *models.Kid) *KidProfile {
	return &KidProfile{Kid: kid.WithoutPIN(), Role: models.RoleKid}
}

// KidAuthResult is returned by kid login
type KidAuthResult struct {
	Token string      `json:"token"`
	Kid   *KidProfile `json:"kid"`
}

// AuthService handles authentication business logic
type AuthService struct {
	*core
	tokens *security.TokenIssuer
	google OAuthIdentifier
}

// Signup creates a parent account and signs it in
func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	err := validation.First(
		validation.ValidateRequired("full_name", fullName, validation.MaxNameLength),
		validation.ValidateEmail(email),
		validation.ValidatePassword(password),
	)
	if err != nil {
		return nil, err
	}

	existing, err := s.repos.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.TrimSpace(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         models.RoleParent,
	}
	if err := s.repos.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("parent signed up")
	return s.parentResult(user)
}

// Login authenticates a parent by email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repos.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.parentResult(user)
}

// KidLogin authenticates a kid by their parent's email, their name and their PIN
func (s *AuthService) KidLogin(ctx context.Context, parentEmail, kidName, pin string) (*KidAuthResult, error) {
	if parentEmail == "" || kidName == "" || !credentials.ValidPIN(pin) {
		return nil, ErrInvalidKidLogin
	}

	kids, err := s.repos.Kids.FindForLogin(ctx, parentEmail, kidName)
	if err != nil {
		return nil, err
	}
	for i := range kids {
		kid := &kids[i]
		if kid.PIN == "" || subtle.ConstantTimeCompare([]byte(kid.PIN), []byte(pin)) != 1 {
			continue
		}
		token, err := s.tokens.IssueKid(kid.ID, kid.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}
		return &KidAuthResult{Token: token, Kid: newKidProfile(kid)}, nil
	}
	return nil, ErrInvalidKidLogin
}

// GoogleLogin signs a parent in with a Google authorization code, creating or
// linking the account by email on first use.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrOAuthUnavailable
	}

	identity, err := s.google.Identify(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("google sign-in failed")
		return nil, &ruleError{kind: ErrInvalidCredentials, msg: "Google sign-in failed"}
	}

	user, err := s.repos.Users.GetUserByOAuth(ctx, identity.Provider, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}
	if user != nil {
		return s.parentResult(user)
	}

	existing, err := s.repos.Users.GetUserByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.OAuthProvider != "" && existing.OAuthProvider != identity.Provider {
			return nil, ErrEmailTaken
		}
		if err := s.repos.Users.LinkOAuth(ctx, existing.ID, identity.Provider, identity.Subject); err != nil {
			return nil, err
		}
		return s.parentResult(existing)
	}

	name := identity.Name
	if name == "" {
		name = strings.Split(identity.Email, "@")[0]
	}
	user = &models.User{
		Email:         identity.Email,
		FullName:      name,
		OAuthProvider: identity.Provider,
		OAuthSubject:  identity.Subject,
		Role:          models.RoleParent,
	}
	if err := s.repos.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("provider", identity.Provider).Msg("parent signed up via oauth")
	return s.parentResult(user)
}

// Parent returns the parent account behind a token
func (s *AuthService) Parent(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Kid returns the profile of the kid behind a token
func (s *AuthService) Kid(ctx context.Context, actor Actor) (*KidProfile, error) {
	kid, err := s.kidFor(ctx, s.repos, actor, actor.KidID)
	if err != nil {
		return nil, err
	}
	return newKidProfile(kid), nil
}

func (s *AuthService) parentResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.IssueParent(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
