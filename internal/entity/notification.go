package entity

import "time"

type Notification struct {
	ID        int       `json:"notification_id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}
