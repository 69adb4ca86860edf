package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Message is a generated outreach message as persisted.
type Message struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject,omitempty"`
	Content   string    `json:"content"`
	Tone      string    `json:"tone"`
	CTA       string    `json:"cta"`
	ReplyRate float64   `json:"estimated_reply_rate"`
	CreatedAt time.Time `json:"created_at"`
}

// Interaction records something that happened with a profile, such as
// outreach being generated for it.
type Interaction struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Kind      string    `json:"kind"`
	DataJSON  string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Job statuses.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

// Stats summarizes the store's contents.
type Stats struct {
	Profiles     int            `json:"total_profiles"`
	Messages     int            `json:"total_messages"`
	Interactions int            `json:"total_interactions"`
	ByIndustry   map[string]int `json:"profiles_by_industry"`
	ByChannel    map[string]int `json:"messages_by_channel"`
	AvgReplyRate float64        `json:"avg_estimated_reply_rate"`
}
