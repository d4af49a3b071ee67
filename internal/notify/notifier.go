package notify

import "go.uber.org/zap"

// Notifier renders classified events. Toast receives transient events,
// Inline receives events that should stick to the open form.
type Notifier interface {
	Toast(event Event)
	Inline(event Event)
}

// Dispatch routes an event to exactly one surface. Session-expired events
// are toast-suppressed; the redirect hook is the user-facing signal.
func Dispatch(n Notifier, event Event) {
	if n == nil || event.Category == CategorySessionExpired {
		return
	}
	if event.Inline {
		n.Inline(event)
		return
	}
	n.Toast(event)
}

// LogNotifier writes events to the process log. The CLI and kiosk have no
// toast surface, so this is their default sink.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Toast(event Event) {
	n.logger.Warn("notice", zap.String("message", event.Message))
}

func (n *LogNotifier) Inline(event Event) {
	n.logger.Warn("form error", zap.String("message", event.Message), zap.String("detail", event.Detail))
}
