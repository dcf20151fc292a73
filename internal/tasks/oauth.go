package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	tasksapi "google.golang.org/api/tasks/v1"
)

// stateTTL bounds how long an OAuth consent link stays valid.
const stateTTL = 15 * time.Minute

// OAuthManager builds consent URLs and exchanges authorization codes
// for the Google Tasks scope. The state parameter is a signed JWT
// carrying the chat user id, so the callback can tie the grant back to
// a family member without server-side session storage.
type OAuthManager struct {
	config      *oauth2.Config
	stateSecret []byte
}

// NewOAuthManager creates an OAuth manager for the Tasks API scope.
func NewOAuthManager(clientID, clientSecret, redirectURL, stateSecret string) *OAuthManager {
	return &OAuthManager{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{tasksapi.TasksScope},
			Endpoint:     google.Endpoint,
		},
		stateSecret: []byte(stateSecret),
	}
}

type stateClaims struct {
	ChatUserID int64 `json:"chat_user_id"`
	jwt.RegisteredClaims
}

// AuthURL returns the consent URL for a member. Offline access is
// requested so we receive a refresh token to store.
func (m *OAuthManager) AuthURL(chatUserID int64) (string, error) {
	claims := stateClaims{
		ChatUserID: chatUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.stateSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return m.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// VerifyState validates a callback state token and returns the chat
// user id it was issued for.
func (m *OAuthManager) VerifyState(state string) (int64, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.stateSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid oauth state: %w", err)
	}
	return claims.ChatUserID, nil
}

// Exchange trades an authorization code for a token. The refresh token
// on the result is what gets persisted against the member.
func (m *OAuthManager) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := m.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}
