package judge

import (
	"fmt"
	"strings"

	"github.com/todmy/hamster-court/internal/dispute"
)

const judgePersona = `你是"仓鼠大法官"，一位公正、幽默又温暖的情侣纠纷裁决法官。请根据双方的陈述进行评判，给出双方的理据充分度得分。`

// DefaultCriteria is the scoring rubric sent when no override is supplied
const DefaultCriteria = `评分标准：
1. 逻辑合理性（30%）：观点是否有理有据、前后一致
2. 情感表达（25%）：是否真诚地表达感受、尊重对方
3. 换位思考（25%）：是否考虑到对方的立场和感受
4. 解决问题的态度（20%）：是否愿意沟通并提出建设性的方案`

func buildSystemPrompt(in dispute.Input, labels dispute.LabelScheme) string {
	labelA := labels.Default(dispute.PartyA)
	labelB := labels.Default(dispute.PartyB)

	criteria := DefaultCriteria
	if override, ok := dispute.Text(in.CriteriaOverride); ok {
		criteria = override
	}

	var b strings.Builder
	b.WriteString(judgePersona)
	b.WriteString("\n\n")
	b.WriteString(criteria)
	b.WriteString("\n\n")

	if in.HasBackground() {
		b.WriteString("双方背景信息（请在评判时综合考虑性格特点与相处历史）：\n")
		writeBackground(&b, labelA, in.BackgroundA)
		writeBackground(&b, labelB, in.BackgroundB)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `请严格按照以下格式输出：
【%s得分】：XX分
【%s得分】：XX分
详细分析：分别点评双方的观点，说明裁决理由，并给出改善关系的建议。

两个得分都是 0 到 100 之间的整数。`, labelA, labelB)

	return b.String()
}

func writeBackground(b *strings.Builder, label string, bg *dispute.Background) {
	fmt.Fprintf(b, "【%s】\n", label)
	if bg.IsEmpty() {
		b.WriteString("未提供背景信息\n")
		return
	}
	if name, ok := dispute.Text(bg.Name); ok {
		fmt.Fprintf(b, "姓名：%s\n", name)
	}
	if bg.PersonalityType != dispute.Unspecified {
		fmt.Fprintf(b, "MBTI：%s\n", bg.PersonalityType)
	}
	if notes, ok := dispute.Text(bg.PersonalityNotes); ok {
		fmt.Fprintf(b, "性格特点：%s\n", notes)
	}
	if history, ok := dispute.Text(bg.History); ok {
		fmt.Fprintf(b, "相处历史：%s\n", history)
	}
}

func buildUserPrompt(in dispute.Input, labels dispute.LabelScheme) string {
	prompt := fmt.Sprintf(`【%s陈述】
%s

【%s陈述】
%s

请根据评分标准给出裁决。`,
		labels.Default(dispute.PartyA), in.StatementA,
		labels.Default(dispute.PartyB), in.StatementB,
	)

	if in.HasBackground() {
		prompt += "请结合双方的背景信息（性格类型与相处历史）进行分析。"
	}

	return prompt
}
