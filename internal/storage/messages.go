package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// SaveMessages stores msgs for profileID in one transaction. Missing IDs
// and timestamps are filled in.
func (s *Store) SaveMessages(profileID string, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning message transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO messages (id, profile_id, channel, subject, content, tone, cta, reply_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if _, err := stmt.Exec(m.ID, profileID, m.Channel, m.Subject, m.Content, m.Tone, m.CTA, m.ReplyRate, formatTime(m.CreatedAt)); err != nil {
			return fmt.Errorf("inserting message %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// ListMessages returns the newest messages generated for profileID.
func (s *Store) ListMessages(profileID string, limit int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, channel, subject, content, tone, cta, reply_rate, created_at
		FROM messages WHERE profile_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		profileID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Channel, &m.Subject, &m.Content, &m.Tone, &m.CTA, &m.ReplyRate, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveInteraction records an interaction. DataJSON defaults to "{}".
func (s *Store) SaveInteraction(i Interaction) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = s.now()
	}
	if i.DataJSON == "" {
		i.DataJSON = "{}"
	}
	_, err := s.db.Exec(`
		INSERT INTO interactions (id, profile_id, kind, data_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		i.ID, i.ProfileID, i.Kind, i.DataJSON, formatTime(i.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving interaction: %w", err)
	}
	return nil
}

// ListInteractions returns the newest interactions recorded for profileID.
func (s *Store) ListInteractions(profileID string, limit int) ([]Interaction, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, kind, data_json, created_at
		FROM interactions WHERE profile_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		profileID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	out := []Interaction{}
	for rows.Next() {
		var i Interaction
		var createdAt string
		if err := rows.Scan(&i.ID, &i.ProfileID, &i.Kind, &i.DataJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		if i.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
