package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is Google's OpenID userinfo endpoint
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthIdentity is the account a provider vouched for
type OAuthIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// GoogleOAuth exchanges authorization codes from the Google sign-in flow
type GoogleOAuth struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleOAuth creates an exchanger for the given client credentials
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: GoogleUserInfoURL,
	}
}

// WithEndpoints points the exchanger at other token and userinfo URLs
func (g *GoogleOAuth) WithEndpoints(endpoint oauth2.Endpoint, userInfoURL string) *GoogleOAuth {
	cfg := *g.config
	cfg.Endpoint = endpoint
	return &GoogleOAuth{config: &cfg, userInfoURL: userInfoURL}
}

// Identify trades an authorization code for the signed-in Google account
func (g *GoogleOAuth) Identify(ctx context.Context, code string) (*OAuthIdentity, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange OAuth code: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch Google user info: status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse Google user info: %w", err)
	}
	if payload.ID == "" || payload.Email == "" {
		return nil, errors.New("google user info is missing id or email")
	}

	return &OAuthIdentity{Provider: "google", Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}
