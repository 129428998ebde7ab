package navigator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

// MaxListedCompletions caps how many recent titles go into a prompt.
const MaxListedCompletions = 5

var labelPrefix = regexp.MustCompile(`(?i)^(thoughtful|thinking|summary|response|answer)\b\s*`)

// Clean trims generated text and strips a leading diagnostic label.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	text = labelPrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// TimeOfDay labels an hour: late night before 5, then morning,
// afternoon and night.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 0 && hour < 5:
		return "深夜"
	case hour < 12:
		return "午前"
	case hour < 18:
		return "午後"
	default:
		return "夜"
	}
}

// ResolveContext picks the startup greeting: bond in the small hours,
// ignition otherwise.
func ResolveContext(now time.Time) model.InteractionContext {
	if h := now.Hour(); h >= 0 && h < 5 {
		return model.ContextBond
	}
	return model.ContextIgnition
}

// BuildPrompt renders the user prompt for one request. now must already
// be in the display zone.
func BuildPrompt(p Persona, req Request, now time.Time) string {
	hour := now.Hour()
	var b strings.Builder
	fmt.Fprintf(&b, "【状況】\n- モード: %s\n- コンテキスト: %s\n- 時間帯: %s（%d時）", req.Mode, req.Context, TimeOfDay(hour), hour)
	if req.TaskTitle != "" {
		fmt.Fprintf(&b, "\n- タスク名: %s", req.TaskTitle)
	}
	if n := len(req.RecentCompletions); n > 0 {
		b.WriteString("\n\n【最近の完了タスク】")
		for i, c := range req.RecentCompletions {
			if i == MaxListedCompletions {
				break
			}
			title := c.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(&b, "\n- %s", title)
		}
		fmt.Fprintf(&b, "\n【今日の達成数】%d個", n)
	}
	fmt.Fprintf(&b, "\n\n【指示】\n%s", p.instruction(req.Context))
	return b.String()
}
