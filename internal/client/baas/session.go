package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fosys/fosys-client/internal/common"
)

// AuthSession implements Session over the service's password-grant token
// endpoint. The session's subject identifier is the sub claim of the access
// token; the token was minted and signed by the service itself, so the
// client reads the claim without re-verifying the signature.
type AuthSession struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu          sync.Mutex
	accessToken string
	userID      string
}

// NewAuthSession builds a signed-out session for the project at baseURL.
func NewAuthSession(baseURL, apiKey string) *AuthSession {
	return &AuthSession{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (s *AuthSession) SignIn(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("sign-in rejected: %w", common.ErrorUnauthorized)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sign-in: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("sign-in: decoding token response: %w", err)
	}

	userID := tr.User.ID
	if userID == "" {
		userID = subjectOf(tr.AccessToken)
	}

	s.mu.Lock()
	s.accessToken = tr.AccessToken
	s.userID = userID
	s.mu.Unlock()
	return nil
}

func (s *AuthSession) UserID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return "", ErrNoSession
	}
	return s.userID, nil
}

func (s *AuthSession) SignOut() {
	s.mu.Lock()
	s.accessToken = ""
	s.userID = ""
	s.mu.Unlock()
}

// AccessToken returns the current bearer token, or "" when signed out.
func (s *AuthSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// subjectOf extracts the sub claim from a JWT without signature
// verification. Returns "" if the token does not parse or has no subject.
func subjectOf(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
