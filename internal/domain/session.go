package domain

import "time"

// ChatSession is the owning scope for a budget. The service only reads
// sessions; they are created and mutated by the conversational backend.
type ChatSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title,omitempty"`
	BusinessType string    `json:"business_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
