package models

import (
	"time"
)

// Background is the optional metadata of one party
type Background struct {
	Name             *string `json:"name,omitempty"`
	PersonalityType  string  `json:"personality_type,omitempty"` // MBTI code or "unspecified"
	PersonalityNotes *string `json:"personality_notes,omitempty"`
	History          *string `json:"history,omitempty"`
}

// VerdictRequest is the body of POST /api/v1/verdicts
type VerdictRequest struct {
	StatementA  string      `json:"statement_a"`
	StatementB  string      `json:"statement_b"`
	LabelA      *string     `json:"label_a,omitempty"`
	LabelB      *string     `json:"label_b,omitempty"`
	BackgroundA *Background `json:"background_a,omitempty"`
	BackgroundB *Background `json:"background_b,omitempty"`
	Criteria    *string     `json:"criteria,omitempty"`
	Mode        string      `json:"mode,omitempty"` // simulated, ai; empty picks ai when configured
}

// Verdict is a rendered verdict in API responses
type Verdict struct {
	ID            string    `json:"id"`
	CaseID        string    `json:"case_id"`
	IssuedAt      time.Time `json:"issued_at"`
	Judge         string    `json:"judge"`
	Mode          string    `json:"mode"`
	RequestedMode string    `json:"requested_mode"`
	ModeLabel     string    `json:"mode_label"`
	Fallback      bool      `json:"fallback"`
	Warning       string    `json:"warning,omitempty"`

	LabelA   string `json:"label_a"`
	LabelB   string `json:"label_b"`
	ScoreA   int    `json:"score_a"`
	ScoreB   int    `json:"score_b"`
	PercentA int    `json:"percent_a"`
	PercentB int    `json:"percent_b"`

	Winner     string   `json:"winner"` // A, B, tie
	WinnerLine string   `json:"winner_line"`
	Analysis   string   `json:"analysis,omitempty"`
	Advice     []string `json:"advice,omitempty"`
	Markdown   string   `json:"markdown"`

	Seal string `json:"seal"`
}

// VerifyRequest is the body of POST /api/v1/verdicts/verify
type VerifyRequest struct {
	Seal string `json:"seal"`
}

// SealClaims is what a valid seal vouches for
type SealClaims struct {
	CaseID    string    `json:"case_id"`
	PercentA  int       `json:"percent_a"`
	PercentB  int       `json:"percent_b"`
	Winner    string    `json:"winner"`
	Mode      string    `json:"mode"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PersonalityType is one entry of GET /api/v1/personality-types
type PersonalityType struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}
