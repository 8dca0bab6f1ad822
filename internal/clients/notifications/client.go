// Package notifications polls the remote notification store. Notifications
// are created server-side; this client only lists unread ones and
// acknowledges reads.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/pkg/transport"
)

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

type notificationRecord struct {
	NotificationID int    `json:"notification_id"`
	UserID         int    `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Sender         string `json:"sender"`
	CreatedAt      string `json:"created_at"`
	Read           bool   `json:"read"`
}

func (c *Client) Unread(ctx context.Context, userID int) ([]entity.Notification, error) {
	url := c.baseURL + "/notifications?userId=" + strconv.Itoa(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if token := entity.TokenFromCtx(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected code %d: %s", resp.StatusCode, body)
	}

	// The store answers with an array normally but with a bare object when
	// there is exactly one unread notification.
	var records []notificationRecord

	if err := json.Unmarshal(body, &records); err != nil {
		var single notificationRecord
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		records = []notificationRecord{single}
	}

	out := make([]entity.Notification, 0, len(records))

	for _, r := range records {
		createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)

		out = append(out, entity.Notification{
			ID:        r.NotificationID,
			UserID:    r.UserID,
			Title:     r.Title,
			Message:   r.Message,
			Sender:    r.Sender,
			CreatedAt: createdAt,
			Read:      r.Read,
		})
	}

	return out, nil
}

func (c *Client) MarkRead(ctx context.Context, notificationID, userID int) error {
	url := fmt.Sprintf("%s/notifications/%d/read?userId=%d", c.baseURL, notificationID, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if token := entity.TokenFromCtx(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entity.ErrNotFound
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected code %d: %s", resp.StatusCode, body)
	}

	return nil
}
