package worker

import (
	"encoding/json"
	"fmt"

	"github.com/kalambet/coldreach/internal/storage"
)

// Job types handled by the Worker.
const (
	JobProfileIndex = "profile_index"
	JobInteraction  = "interaction"
)

// Enqueuer is the write side of the job queue.
type Enqueuer interface {
	EnqueueJob(job storage.Job) (string, error)
}

type profileIndexPayload struct {
	ProfileID string `json:"profile_id"`
}

type interactionPayload struct {
	ProfileID string          `json:"profile_id"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// EnqueueProfileIndex schedules embedding of a stored profile's summary.
func EnqueueProfileIndex(q Enqueuer, profileID string) (string, error) {
	return enqueue(q, JobProfileIndex, profileIndexPayload{ProfileID: profileID})
}

// EnqueueInteraction schedules recording of an interaction. data is
// marshalled to JSON; nil records an empty object.
func EnqueueInteraction(q Enqueuer, profileID, kind string, data any) (string, error) {
	p := interactionPayload{ProfileID: profileID, Kind: kind}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("encoding %s interaction data: %w", kind, err)
		}
		p.Data = raw
	}
	return enqueue(q, JobInteraction, p)
}

func enqueue(q Enqueuer, typ string, payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	return q.EnqueueJob(storage.Job{Type: typ, PayloadJSON: string(b)})
}
