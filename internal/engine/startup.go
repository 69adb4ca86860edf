package engine

import (
	"context"
	"fmt"
	"io"
)

// EnsureReady checks that the Engine is reachable. For engines that host
// models locally, missing models are pulled with progress written to w.
// embedModel may be empty.
func EnsureReady(ctx context.Context, e Engine, embedModel string, w io.Writer) error {
	if !e.IsRunning(ctx) {
		return fmt.Errorf("%s backend is not reachable; check that it is running and configured", e.Name())
	}

	mm, ok := Unwrap(e).(ModelManager)
	if !ok {
		fmt.Fprintf(w, "%s model %s: ready\n", e.Name(), e.Model())
		return nil
	}

	models := make([]string, 0, 2)
	if m := e.Model(); m != "" {
		models = append(models, m)
	}
	if embedModel != "" && embedModel != e.Model() {
		models = append(models, embedModel)
	}

	for _, model := range models {
		if mm.HasModel(ctx, model) {
			fmt.Fprintf(w, "model %s: ready\n", model)
			continue
		}

		fmt.Fprintf(w, "model %s: pulling...\n", model)
		err := mm.PullModel(ctx, model, func(p PullProgress) {
			if p.Total > 0 {
				pct := float64(p.Completed) / float64(p.Total) * 100
				fmt.Fprintf(w, "  %s %.0f%%\n", p.Status, pct)
			} else {
				fmt.Fprintf(w, "  %s\n", p.Status)
			}
		})
		if err != nil {
			return fmt.Errorf("pulling model %s: %w", model, err)
		}
		fmt.Fprintf(w, "model %s: ready\n", model)
	}

	return nil
}
