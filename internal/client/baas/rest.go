package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const restTimeout = 15 * time.Second

// RESTStore implements Store over the service's PostgREST-style surface:
// GET/POST/PATCH against /rest/v1/{table} with eq. filters in the query
// string.
type RESTStore struct {
	baseURL string
	apiKey  string
	session Session
	http    *http.Client
}

// NewRESTStore builds a store for the project at baseURL authenticated with
// apiKey. When session is non-nil and signed in, its token is preferred for
// the Authorization header so row-level security applies per user.
func NewRESTStore(baseURL, apiKey string, session Session) *RESTStore {
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: session,
		http:    &http.Client{Timeout: restTimeout},
	}
}

func (s *RESTStore) bearer() string {
	if as, ok := s.session.(*AuthSession); ok && as != nil {
		if token := as.AccessToken(); token != "" {
			return token
		}
	}
	return s.apiKey
}

func (s *RESTStore) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.bearer())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (s *RESTStore) tableURL(table string, query url.Values) string {
	u := s.baseURL + "/rest/v1/" + url.PathEscape(table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (s *RESTStore) SelectEq(ctx context.Context, table, column, value string) ([]Row, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set(column, "eq."+value)

	req, err := s.newRequest(ctx, http.MethodGet, s.tableURL(table, query), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("select %s: status %d", table, resp.StatusCode)
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("select %s: decoding rows: %w", table, err)
	}
	return rows, nil
}

func (s *RESTStore) Insert(ctx context.Context, table string, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("insert %s: encoding row: %w", table, err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, s.tableURL(table, nil), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("insert %s: status %d", table, resp.StatusCode)
	}
	return nil
}

func (s *RESTStore) UpdateEq(ctx context.Context, table, column, value string, patch any) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("update %s: encoding patch: %w", table, err)
	}

	query := url.Values{}
	query.Set(column, "eq."+value)

	req, err := s.newRequest(ctx, http.MethodPatch, s.tableURL(table, query), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("update %s: status %d", table, resp.StatusCode)
	}
	return nil
}
