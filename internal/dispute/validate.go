package dispute

import (
	"fmt"
	"strings"
)

// ValidationError reports which party's input is unusable
type ValidationError struct {
	Party Party
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("party %s: %v", e.Party, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks that both statements are non-empty after trimming.
// Nothing downstream re-validates.
func (in Input) Validate() error {
	if strings.TrimSpace(in.StatementA) == "" {
		return &ValidationError{Party: PartyA, Err: ErrEmptyStatement}
	}
	if strings.TrimSpace(in.StatementB) == "" {
		return &ValidationError{Party: PartyB, Err: ErrEmptyStatement}
	}
	return nil
}

// LabelScheme picks the fallback display names for the two parties
type LabelScheme string

const (
	// SchemeParties labels the sides 甲方 / 乙方
	SchemeParties LabelScheme = "parties"
	// SchemeCouple labels the sides 女方 / 男方
	SchemeCouple LabelScheme = "couple"
)

// ParseLabelScheme maps a config value to a scheme. Empty selects SchemeParties.
func ParseLabelScheme(s string) (LabelScheme, error) {
	switch LabelScheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeParties:
		return SchemeParties, nil
	case SchemeCouple:
		return SchemeCouple, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLabelScheme, s)
	}
}

// Default returns the fallback label for a party
func (s LabelScheme) Default(p Party) string {
	if s == SchemeCouple {
		if p == PartyB {
			return "男方"
		}
		return "女方"
	}
	if p == PartyB {
		return "乙方"
	}
	return "甲方"
}

// Label resolves the display name of a party: background name first, then the
// explicit label, then the scheme default.
func (s LabelScheme) Label(in Input, p Party) string {
	if bg := in.Background(p); bg != nil {
		if name, ok := Text(bg.Name); ok {
			return name
		}
	}
	label := in.LabelA
	if p == PartyB {
		label = in.LabelB
	}
	if v, ok := Text(label); ok {
		return v
	}
	return s.Default(p)
}
