package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/pkg/transport"
)

// Client talks to the remote auth endpoint. Authentication semantics live
// entirely on the other side; this client only relays credentials and reads
// back the user record.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport.NewRequestIDRoundTripper(http.DefaultTransport),
		},
	}
}

type RegisterRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email_id"`
	Password      string `json:"password"`
	Company       string `json:"company"`
	AccessLevelID int    `json:"access_level_id"`
}

type userResponse struct {
	UserID      int    `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email_id"`
	Company     string `json:"company"`
	AccessLevel int    `json:"access_level"`
	Token       string `json:"token"`
}

// Register creates the account and, like login, returns the user record with
// the store's bearer token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (entity.User, string, error) {
	return c.postUser(ctx, "/auth/register", req)
}

type LoginRequest struct {
	Email    string `json:"email_id"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (entity.User, string, error) {
	return c.postUser(ctx, "/auth/login", LoginRequest{Email: email, Password: password})
}

func (c *Client) postUser(ctx context.Context, path string, payload any) (entity.User, string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return entity.User{}, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.User{}, "", entity.ErrUnauthenticated
	case http.StatusNotFound:
		return entity.User{}, "", entity.ErrNotFound
	default:
		return entity.User{}, "", storeError(resp.StatusCode, body)
	}

	var data userResponse

	err = json.Unmarshal(body, &data)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("decode response: %w", err)
	}

	return entity.User{
		ID:          data.UserID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		Company:     data.Company,
		AccessLevel: data.AccessLevel,
	}, data.Token, nil
}

func storeError(status int, body []byte) error {
	var e struct {
		Message string `json:"message"`
	}

	_ = json.Unmarshal(body, &e)

	return &entity.StoreError{StatusCode: status, Message: e.Message}
}
