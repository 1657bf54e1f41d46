package judge

import (
	"regexp"
	"strconv"
	"strings"
)

const defaultReplyScore = 50

var (
	partyAMarkers = []string{"甲方得分", "甲方：", "甲方:", "女方得分", "女方：", "女方:"}
	partyBMarkers = []string{"乙方得分", "乙方：", "乙方:", "男方得分", "男方：", "男方:"}

	digitsRegex = regexp.MustCompile(`[0-9]+`)
)

// ParsedReply is the best-effort reading of an AI reply
type ParsedReply struct {
	A        int
	B        int
	Analysis string
}

// ParseReply extracts both scores from a free-text reply. Each line holding a
// party marker assigns the first digit run on that line to that party; later
// lines overwrite earlier ones and lines without digits change nothing.
// Analysis is always the untouched reply. When a number cannot be read the
// whole reply falls back to 50/50.
func ParseReply(raw string) ParsedReply {
	fallback := ParsedReply{A: defaultReplyScore, B: defaultReplyScore, Analysis: raw}

	a, b := defaultReplyScore, defaultReplyScore
	for _, line := range strings.Split(raw, "\n") {
		if containsAny(line, partyAMarkers) {
			n, ok, err := firstNumber(line)
			if err != nil {
				return fallback
			}
			if ok {
				a = n
			}
		}
		if containsAny(line, partyBMarkers) {
			n, ok, err := firstNumber(line)
			if err != nil {
				return fallback
			}
			if ok {
				b = n
			}
		}
	}

	return ParsedReply{A: a, B: b, Analysis: raw}
}

func containsAny(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func firstNumber(line string) (int, bool, error) {
	digits := digitsRegex.FindString(line)
	if digits == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
