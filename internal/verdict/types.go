package verdict

import (
	"time"

	"github.com/todmy/hamster-court/internal/judge"
)

// Winner is the outcome of a verdict
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "tie"
)

// Document is a rendered verdict
type Document struct {
	CaseID    string     `json:"case_id"`
	IssuedAt  time.Time  `json:"issued_at"`
	Date      string     `json:"date"`
	Judge     string     `json:"judge"`
	Mode      judge.Mode `json:"mode"`
	ModeLabel string     `json:"mode_label"`
	Fallback  bool       `json:"fallback"`

	LabelA     string `json:"label_a"`
	LabelB     string `json:"label_b"`
	StatementA string `json:"statement_a"`
	StatementB string `json:"statement_b"`

	PercentA   int    `json:"percent_a"`
	PercentB   int    `json:"percent_b"`
	Winner     Winner `json:"winner"`
	WinnerLine string `json:"winner_line"`

	Findings string   `json:"findings"`
	Advice   []string `json:"advice,omitempty"`
	Footer   string   `json:"footer"`

	// Markdown is the full verdict body
	Markdown string `json:"markdown"`
}
