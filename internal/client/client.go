// Package client is a Go client for the places HTTP API.
//
// Calls are made through a Scope. A Scope owns every request started from it,
// and Close cancels whatever is still in flight, so a component can release
// its outstanding calls when it shuts down.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
)

// ErrScopeClosed is returned for calls made on a closed Scope.
var ErrScopeClosed = errors.New("client scope is closed")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// AuthResult is returned by SignUp and Login.
type AuthResult struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

// User is a user as listed by the API.
type User struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Image  string      `json:"image"`
	Places []uuid.UUID `json:"places"`
}

// Image is an optional file sent with SignUp or CreatePlace.
type Image struct {
	Filename string
	Data     []byte
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client holds the connection settings shared by its scopes.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a Client for the API rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "places_client"))
	return c
}

// SetToken sets the bearer token sent with protected calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Scope tracks the in-flight calls started through it.
type Scope struct {
	client *Client
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	active int
	closed bool
}

// NewScope starts a scope bound to parent. Cancelling parent has the same effect as Close.
func (c *Client) NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{client: c, ctx: ctx, cancel: cancel}
}

// Close cancels every in-flight call of the scope and rejects new ones.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Active returns the number of calls currently in flight.
func (s *Scope) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// begin derives a call context cancelled by either ctx or the scope.
func (s *Scope) begin(ctx context.Context) (context.Context, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctx.Err() != nil {
		return nil, nil, ErrScopeClosed
	}

	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	s.active++

	return callCtx, func() {
		stop()
		cancel()
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}, nil
}

// request describes one API call.
type request struct {
	method      string
	path        string
	auth        bool
	body        io.Reader
	contentType string
}

func jsonBody(v interface{}) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(raw), nil
}

func multipartBody(fields map[string]string, img *Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := mw.CreateFormFile("image", img.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// do sends req and decodes a 2xx body into out.
func (s *Scope) do(ctx context.Context, req request, out interface{}) error {
	callCtx, done, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	httpReq, err := http.NewRequestWithContext(callCtx, req.method, s.client.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		ct := req.contentType
		if ct == "" {
			ct = "application/json"
		}
		httpReq.Header.Set("Content-Type", ct)
	}
	if req.auth {
		httpReq.Header.Set("Authorization", "Bearer "+s.client.bearer())
	}

	resp, err := s.client.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	s.client.logger.Debug("api call",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SignUp creates an account. img may be nil.
func (s *Scope) SignUp(ctx context.Context, name, email, password string, img *Image) (*AuthResult, error) {
	fields := map[string]string{"name": name, "email": email, "password": password}
	req, err := formOrJSON(http.MethodPost, "/users/signup", fields, img)
	if err != nil {
		return nil, err
	}
	var out AuthResult
	if err := s.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (s *Scope) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var out AuthResult
	if err := s.do(ctx, request{method: http.MethodPost, path: "/users/login", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns every user.
func (s *Scope) ListUsers(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := s.do(ctx, request{method: http.MethodGet, path: "/users"}, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// GetPlace fetches one place.
func (s *Scope) GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error) {
	var out struct {
		Place *domain.Place `json:"place"`
	}
	if err := s.do(ctx, request{method: http.MethodGet, path: "/places/" + placeID.String()}, &out); err != nil {
		return nil, err
	}
	return out.Place, nil
}

// ListPlacesByUser fetches the places created by userID.
func (s *Scope) ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error) {
	var out struct {
		Places []*domain.Place `json:"places"`
	}
	if err := s.do(ctx, request{method: http.MethodGet, path: "/places/user/" + userID.String()}, &out); err != nil {
		return nil, err
	}
	return out.Places, nil
}

// CreatePlace creates a place owned by the token's user. img may be nil.
func (s *Scope) CreatePlace(ctx context.Context, title, description, address string, img *Image) (*domain.Place, error) {
	fields := map[string]string{"title": title, "description": description, "address": address}
	req, err := formOrJSON(http.MethodPost, "/places", fields, img)
	if err != nil {
		return nil, err
	}
	req.auth = true
	var out struct {
		Place *domain.Place `json:"place"`
	}
	if err := s.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Place, nil
}

// UpdatePlace changes the title and description of a place.
func (s *Scope) UpdatePlace(ctx context.Context, placeID uuid.UUID, title, description string) (*domain.Place, error) {
	body, err := jsonBody(map[string]string{"title": title, "description": description})
	if err != nil {
		return nil, err
	}
	var out struct {
		Place *domain.Place `json:"place"`
	}
	req := request{method: http.MethodPatch, path: "/places/" + placeID.String(), auth: true, body: body}
	if err := s.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Place, nil
}

// DeletePlace deletes a place.
func (s *Scope) DeletePlace(ctx context.Context, placeID uuid.UUID) error {
	return s.do(ctx, request{method: http.MethodDelete, path: "/places/" + placeID.String(), auth: true}, nil)
}

func formOrJSON(method, path string, fields map[string]string, img *Image) (request, error) {
	if img == nil {
		body, err := jsonBody(fields)
		if err != nil {
			return request{}, err
		}
		return request{method: method, path: path, body: body}, nil
	}
	body, contentType, err := multipartBody(fields, img)
	if err != nil {
		return request{}, fmt.Errorf("failed to encode form: %w", err)
	}
	return request{method: method, path: path, body: body, contentType: contentType}, nil
}
