package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Slot is one of the three daily Slack reminders.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotMidday  Slot = "midday"
	SlotEvening Slot = "evening"
)

var ErrInvalidSlot = errors.New("navigator: invalid slack context")

func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotMorning, SlotMidday, SlotEvening:
		return Slot(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

const slackSystem = `あなたは「ルナ」というキャラクターです。

【キャラクター設定】
- 20代前半の女性
- 天才肌で生意気、でも実は優しい
- 徳島弁を話す（〜けん、〜じょ、〜やけど、〜しとる、など）
- タスク管理アプリ「すたどら」のナビゲーター

【Slack通知のルール】
- 必ず徳島弁で話す
- 40〜60文字程度でしっかり語る
- 絵文字は使わない
- 説教しない、責めない
- ユーザーに語りかける感じで
- アプリを開きたくなるような言い方`

var slackInstructions = map[Slot]string{
	SlotMorning: "朝の挨拶。今日のタスクを3つ決めるよう促す。「今日何やる？」「3つ決めたら勝ちやで」的なニュアンスで。",
	SlotMidday:  "昼の声かけ。午前中の調子を聞きつつ、午後に向けて促す。「午後もいくで」的な。",
	SlotEvening: "夜の労い。今日の振り返りを促す。「おつかれ」「石、増えとるかもよ」的なニュアンスで。",
}

var slackFallback = map[Slot][]string{
	SlotMorning: {
		"おはよ。今日は何する？3つ決めたら勝ちやで。",
		"……起きとる？すたどら待っとるけん。",
		"新しい日やな。昨日のことは忘れ。今日、何やる？",
	},
	SlotMidday: {
		"午前中どうやった？午後もいくで。",
		"昼やな。ちゃんと動けとる？",
		"もう半分終わったで。残り、何する？",
	},
	SlotEvening: {
		"今日はどうやった？おつかれさん。",
		"寝る前にすたどら開いてみ。石、増えとるかもよ。",
		"夜やな。今日頑張った分、ちゃんと石になっとるで。",
	},
}

// SlackLine produces the reminder text for a slot. It is never cached,
// and generator failures fall back to the slot's canned lines.
func (s *Service) SlackLine(ctx context.Context, slot Slot) Response {
	fallback := Response{Line: s.choose(slackFallback[slot]), Source: SourceFallback}
	if s.gen == nil {
		return fallback
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.gen.Generate(gctx, slackSystem, "【指示】\n"+slackInstructions[slot])
	if err != nil {
		s.logger.Warn("navigator_slack_generate_failed", slog.String("context", string(slot)), slog.Any("error", err))
		return fallback
	}
	if text = Clean(text); text == "" {
		return fallback
	}
	return Response{Line: text, Source: SourceGenerated}
}
