package verdict

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/internal/judge"
)

const (
	JudgeName = "仓鼠大法官 🐹"

	echoLimit    = 100
	echoEllipsis = "..."

	modeLabelAI        = "AI 智能裁决"
	modeLabelSimulated = "模拟裁决"
	modeLabelFallback  = "模拟裁决（AI 不可用，已降级）"

	simulatedFindings = "经过认真审理，本法官认为双方都有合理诉求。在亲密关系中，情感需求和个人空间同样重要。"
)

// Advice is the fixed list appended to simulated verdicts
var Advice = []string{
	"1️⃣ **建立沟通时间表**：固定每天的聊天时间",
	"2️⃣ **尊重个人空间**：给彼此独处时间",
	"3️⃣ **表达需求方式**：用\"我需要\"代替\"你总是\"",
	"4️⃣ **增加仪式感**：每周安排固定的约会时间",
	"5️⃣ **换位思考**：试着站在对方角度理解TA的感受",
}

var documentTemplate = template.Must(template.New("verdict").Parse(`**【案情编号】**：{{.CaseID}}
**【裁决日期】**：{{.Date}}
**【主审法官】**：{{.Judge}}
**【裁决方式】**：{{.ModeLabel}}

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

**一、案情概述**

本案系一起典型的情侣日常纠纷案件。{{.LabelA}}与{{.LabelB}}因沟通方式和相处模式产生分歧，特向本庭申请裁决。

**二、双方观点分析**

【{{.LabelA}}观点】
{{.StatementA}}

【{{.LabelB}}观点】
{{.StatementB}}

**三、法官意见**

{{.Findings}}

**四、最终裁决**

• {{.LabelA}}理据充分度：{{.PercentA}}%
• {{.LabelB}}理据充分度：{{.PercentB}}%

{{.WinnerLine}}
{{if .Advice}}
**五、仓鼠法官的建议** 💝

{{range .Advice}}{{.}}
{{end}}{{end}}
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

此致
仓鼠法庭 🐹⚖️
{{.Footer}}
`))

// Renderer formats scores into verdict documents
type Renderer struct {
	labels dispute.LabelScheme
	now    func() time.Time
}

// Option configures the Renderer
type Option func(*Renderer)

// WithClock sets the time source used for case IDs and dates
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a renderer that falls back to labels for unnamed parties
func NewRenderer(labels dispute.LabelScheme, opts ...Option) *Renderer {
	if labels == "" {
		labels = dispute.SchemeParties
	}

	r := &Renderer{
		labels: labels,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the verdict for a resolved score. Statements are truncated
// when the score came from the simulator and echoed in full otherwise.
func (r *Renderer) Render(in dispute.Input, res judge.Result) Document {
	now := r.now()
	percentA, percentB := Percentages(res.A, res.B)
	labelA := r.labels.Label(in, dispute.PartyA)
	labelB := r.labels.Label(in, dispute.PartyB)
	winner, winnerLine := decideWinner(labelA, labelB, percentA, percentB)

	doc := Document{
		CaseID:    fmt.Sprintf("HC-%d", now.Unix()),
		IssuedAt:  now,
		Date:      now.Format("2006年01月02日"),
		Judge:     JudgeName,
		Mode:      res.Mode,
		ModeLabel: modeLabel(res),
		Fallback:  res.Fallback,

		LabelA: labelA,
		LabelB: labelB,

		PercentA:   percentA,
		PercentB:   percentB,
		Winner:     winner,
		WinnerLine: winnerLine,

		Footer: now.Format("2006-01-02 15:04:05"),
	}

	if res.Mode == judge.ModeAI {
		doc.StatementA = in.StatementA
		doc.StatementB = in.StatementB
		doc.Findings = res.Analysis
	} else {
		doc.StatementA = truncate(in.StatementA, echoLimit)
		doc.StatementB = truncate(in.StatementB, echoLimit)
		doc.Findings = simulatedFindings
		doc.Advice = append([]string(nil), Advice...)
	}

	var body strings.Builder
	if err := documentTemplate.Execute(&body, doc); err != nil {
		// only reachable through a broken template
		panic(fmt.Sprintf("render verdict: %v", err))
	}
	doc.Markdown = body.String()

	return doc
}

// Percentages converts raw scores into shares summing to 100. Halves round
// to even. A zero total is a tie.
func Percentages(a, b int) (int, int) {
	total := a + b
	if total <= 0 {
		return 50, 50
	}
	percentA := int(math.RoundToEven(100 * float64(a) / float64(total)))
	return percentA, 100 - percentA
}

func decideWinner(labelA, labelB string, percentA, percentB int) (Winner, string) {
	switch {
	case percentA > percentB:
		return WinnerA, fmt.Sprintf("🎉 %s占理 %d%% - 胜诉！", labelA, percentA)
	case percentB > percentA:
		return WinnerB, fmt.Sprintf("🎉 %s占理 %d%% - 胜诉！", labelB, percentB)
	default:
		return WinnerTie, fmt.Sprintf("🤝 双方各占 %d%% - 平局！", percentA)
	}
}

func modeLabel(res judge.Result) string {
	switch {
	case res.Mode == judge.ModeAI:
		return modeLabelAI
	case res.Fallback:
		return modeLabelFallback
	default:
		return modeLabelSimulated
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + echoEllipsis
}
