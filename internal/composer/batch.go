package composer

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/coldreach/internal/profile"
)

// Failure records a channel that could not be composed.
type Failure struct {
	Channel profile.Channel `json:"channel"`
	Reason  string          `json:"reason"`
	Timeout bool            `json:"timeout,omitempty"`
}

// BatchResult holds the successful messages in request order plus one
// Failure per channel that failed.
type BatchResult struct {
	Messages []Message `json:"messages"`
	Failures []Failure `json:"failures,omitempty"`
}

// ComposeBatch composes one message per distinct channel with bounded
// concurrency. A failing channel never cancels its siblings.
func (c *Composer) ComposeBatch(ctx context.Context, req Request, channels []profile.Channel) BatchResult {
	channels = uniqueChannels(channels)

	type slot struct {
		msg Message
		err error
	}
	slots := make([]slot, len(channels))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, ch := range channels {
		g.Go(func() error {
			msg, err := c.Compose(ctx, req, ch)
			slots[i] = slot{msg: msg, err: err}
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Messages: make([]Message, 0, len(channels))}
	for i, s := range slots {
		if s.err != nil {
			res.Failures = append(res.Failures, Failure{
				Channel: channels[i],
				Reason:  s.err.Error(),
				Timeout: errors.Is(s.err, ErrTimeout),
			})
			continue
		}
		res.Messages = append(res.Messages, s.msg)
	}
	return res
}

func uniqueChannels(in []profile.Channel) []profile.Channel {
	seen := make(map[profile.Channel]bool, len(in))
	out := make([]profile.Channel, 0, len(in))
	for _, ch := range in {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return out
}
