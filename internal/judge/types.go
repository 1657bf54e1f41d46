package judge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMode   = errors.New("unknown scoring mode")
	ErrNotConfigured = errors.New("AI endpoint not configured")
	ErrEmptyReply    = errors.New("empty reply from AI endpoint")
)

// Mode selects the scoring strategy
type Mode string

const (
	ModeSimulated Mode = "simulated"
	ModeAI        Mode = "ai"
)

// ParseMode maps user input to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSimulated:
		return ModeSimulated, nil
	case ModeAI:
		return ModeAI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Score holds the raw points of both parties. Simulated scores are not
// clamped and may exceed 100.
type Score struct {
	A int `json:"score_a"`
	B int `json:"score_b"`

	// Analysis is the AI reply verbatim; empty unless Mode is ModeAI
	Analysis string `json:"analysis,omitempty"`

	// Mode is the strategy that produced the score
	Mode Mode `json:"mode"`
}

// Result is the outcome of one resolution. Fallback is set when the AI
// strategy was requested but the simulated one produced the score.
type Result struct {
	Score

	Requested      Mode
	Fallback       bool
	FallbackReason error
}
