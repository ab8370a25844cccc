// Package verdict defines the contract for the "Flag or Not" mode: a user
// submits free text and an AI judge calls it red or green.
package verdict

import (
	"context"
	"strings"
	"time"
)

// Color is the judge's call on a submission.
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
)

// IsValid reports whether c is a known color.
func (c Color) IsValid() bool {
	return c == ColorRed || c == ColorGreen
}

// Submission is one judged community entry of the feed.
type Submission struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Color     Color     `json:"color"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Judge decides whether a statement is a red flag. Implementations may call
// an external model.
type Judge interface {
	// Judge returns the color and a one-line reason, honoring ctx.
	Judge(ctx context.Context, text string) (Color, string, error)
}

// Default heuristic configuration.
const defaultRedThreshold = 1

// HeuristicJudge implements Judge with a deterministic keyword lexicon.
// It stands in for the external model during local development.
type HeuristicJudge struct {
	redMarkers   []string
	redThreshold int
}

// HeuristicOption applies a configuration option to the HeuristicJudge.
type HeuristicOption func(*HeuristicJudge)

// WithRedMarkers replaces the built-in marker lexicon.
func WithRedMarkers(markers []string) HeuristicOption {
	return func(j *HeuristicJudge) {
		if len(markers) > 0 {
			j.redMarkers = markers
		}
	}
}

// WithRedThreshold sets how many marker hits flip the verdict to red.
func WithRedThreshold(n int) HeuristicOption {
	return func(j *HeuristicJudge) {
		if n > 0 {
			j.redThreshold = n
		}
	}
}

// NewHeuristicJudge creates a heuristic judge with the default lexicon.
func NewHeuristicJudge(opts ...HeuristicOption) *HeuristicJudge {
	j := &HeuristicJudge{
		redMarkers: []string{
			"jamais", "toujours", "interdit", "contrôle", "controle",
			"jaloux", "jalouse", "fouille", "supprime", "ment", "cache",
			"ex ", "insulte", "crie", "ignore", "bloque", "humilie",
		},
		redThreshold: defaultRedThreshold,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Judge counts lexicon hits in the submission. Threshold or more hits is a
// red flag; anything else passes green.
func (j *HeuristicJudge) Judge(ctx context.Context, text string) (Color, string, error) {
	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	default:
	}

	lowered := strings.ToLower(text)
	hits := 0
	for _, marker := range j.redMarkers {
		if strings.Contains(lowered, marker) {
			hits++
		}
	}
	if hits >= j.redThreshold {
		return ColorRed, "des signaux d'alerte reviennent dans cette description", nil
	}
	return ColorGreen, "rien d'alarmant dans cette description", nil
}
