package dispute

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyStatement     = errors.New("statement is empty")
	ErrUnknownPersonality = errors.New("unknown personality type")
	ErrUnknownLabelScheme = errors.New("unknown label scheme")
)

// Party identifies one side of a dispute
type Party string

const (
	PartyA Party = "A"
	PartyB Party = "B"
)

// PersonalityType is an MBTI code, or Unspecified when the party did not pick one
type PersonalityType string

const (
	Unspecified PersonalityType = ""

	INTJ PersonalityType = "INTJ"
	INTP PersonalityType = "INTP"
	ENTJ PersonalityType = "ENTJ"
	ENTP PersonalityType = "ENTP"
	INFJ PersonalityType = "INFJ"
	INFP PersonalityType = "INFP"
	ENFJ PersonalityType = "ENFJ"
	ENFP PersonalityType = "ENFP"
	ISTJ PersonalityType = "ISTJ"
	ISFJ PersonalityType = "ISFJ"
	ESTJ PersonalityType = "ESTJ"
	ESFJ PersonalityType = "ESFJ"
	ISTP PersonalityType = "ISTP"
	ISFP PersonalityType = "ISFP"
	ESTP PersonalityType = "ESTP"
	ESFP PersonalityType = "ESFP"
)

// PersonalityTypes lists the 16 MBTI codes in display order
var PersonalityTypes = []PersonalityType{
	INTJ, INTP, ENTJ, ENTP,
	INFJ, INFP, ENFJ, ENFP,
	ISTJ, ISFJ, ESTJ, ESFJ,
	ISTP, ISFP, ESTP, ESFP,
}

// UnspecifiedLabel is how an unset personality type is shown to users
const UnspecifiedLabel = "unspecified"

// ParsePersonalityType accepts an MBTI code in any case. Empty input and
// "unspecified" (or the form's 不确定) map to Unspecified.
func ParsePersonalityType(s string) (PersonalityType, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, UnspecifiedLabel) || s == "不确定" {
		return Unspecified, nil
	}

	code := PersonalityType(strings.ToUpper(s))
	for _, p := range PersonalityTypes {
		if p == code {
			return p, nil
		}
	}
	return Unspecified, fmt.Errorf("%w: %q", ErrUnknownPersonality, s)
}

var nicknames = map[PersonalityType]string{
	INTJ: "建筑师", INTP: "逻辑学家", ENTJ: "指挥官", ENTP: "辩论家",
	INFJ: "提倡者", INFP: "调停者", ENFJ: "主人公", ENFP: "竞选者",
	ISTJ: "物流师", ISFJ: "守卫者", ESTJ: "总经理", ESFJ: "执政官",
	ISTP: "鉴赏家", ISFP: "探险家", ESTP: "企业家", ESFP: "表演者",
}

// Nickname returns the common Chinese name of the type, or 不确定
func (p PersonalityType) Nickname() string {
	if n, ok := nicknames[p]; ok {
		return n
	}
	return "不确定"
}

func (p PersonalityType) String() string {
	if p == Unspecified {
		return UnspecifiedLabel
	}
	return string(p)
}

// Background is advisory metadata about one party. It only feeds the AI
// prompt and display-label resolution.
type Background struct {
	Name             *string
	PersonalityType  PersonalityType
	PersonalityNotes *string
	History          *string
}

// IsEmpty reports whether no field carries information
func (b *Background) IsEmpty() bool {
	if b == nil {
		return true
	}
	_, hasName := Text(b.Name)
	_, hasNotes := Text(b.PersonalityNotes)
	_, hasHistory := Text(b.History)
	return !hasName && !hasNotes && !hasHistory && b.PersonalityType == Unspecified
}

// Input is one dispute submission
type Input struct {
	StatementA string
	StatementB string

	LabelA *string
	LabelB *string

	BackgroundA *Background
	BackgroundB *Background

	CriteriaOverride *string
}

// HasBackground reports whether either party supplied background metadata
func (in Input) HasBackground() bool {
	return !in.BackgroundA.IsEmpty() || !in.BackgroundB.IsEmpty()
}

// Statement returns the statement of the given party
func (in Input) Statement(p Party) string {
	if p == PartyB {
		return in.StatementB
	}
	return in.StatementA
}

// Background returns the background of the given party, which may be nil
func (in Input) Background(p Party) *Background {
	if p == PartyB {
		return in.BackgroundB
	}
	return in.BackgroundA
}

// Text returns the trimmed value of an optional text and whether it is
// present. Nil and blank values are absent.
func Text(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

// Some wraps a string as a present optional text
func Some(s string) *string {
	return &s
}
