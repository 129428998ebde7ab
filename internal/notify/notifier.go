package notify

import (
	"context"
	"log/slog"

	"github.com/Yoshiyuki1026/smtd/internal/navigator"
)

// LineSource produces the reminder text for a slot.
type LineSource interface {
	SlackLine(ctx context.Context, slot navigator.Slot) navigator.Response
}

type Result struct {
	Success bool             `json:"success"`
	Line    string           `json:"line"`
	Source  navigator.Source `json:"source"`
	Context navigator.Slot   `json:"context"`
}

// Notifier generates a line and posts it. It never touches game state.
type Notifier struct {
	lines  LineSource
	poster Poster
	logger *slog.Logger
	hook   func(slot string, err error)
}

func NewNotifier(lines LineSource, poster Poster, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{lines: lines, poster: poster, logger: logger}
}

// SetHook registers a callback receiving every delivery result.
func (n *Notifier) SetHook(fn func(slot string, err error)) { n.hook = fn }

func (n *Notifier) Notify(ctx context.Context, slot navigator.Slot) Result {
	line := n.lines.SlackLine(ctx, slot)
	err := n.poster.Post(ctx, line.Line)
	if err != nil {
		n.logger.Error("slack_notify_failed", slog.String("context", string(slot)), slog.Any("error", err))
	} else {
		n.logger.Info("slack_notify_sent", slog.String("context", string(slot)), slog.String("source", string(line.Source)))
	}
	if n.hook != nil {
		n.hook(string(slot), err)
	}
	return Result{
		Success: err == nil,
		Line:    line.Line,
		Source:  line.Source,
		Context: slot,
	}
}
