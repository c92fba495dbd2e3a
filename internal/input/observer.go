package input

import (
	"context"
	"log/slog"

	hook "github.com/robotn/gohook"
)

// Observe feeds global key events from gohook to m and posts matched
// actions. gohook only observes the keyboard, so matched keys still reach
// other applications. Observe returns when ctx is done.
func Observe(ctx context.Context, m interface{ Match(KeyEvent) (Action, bool) }, post func(Action), logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	events := hook.Start()
	defer hook.End()
	logger.Info("gohook key observer started")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				logger.Warn("gohook event stream closed")
				return
			}
			ke, ok := keyEventFromHook(ev)
			if !ok {
				continue
			}
			if a, ok := m.Match(ke); ok {
				post(a)
			}
		}
	}
}

// keyEventFromHook converts a gohook press or release. Rawcode carries the
// virtual-key code and Keycode the scan code.
func keyEventFromHook(ev hook.Event) (KeyEvent, bool) {
	var down bool
	switch ev.Kind {
	case hook.KeyHold:
		down = true
	case hook.KeyUp:
		down = false
	default:
		return KeyEvent{}, false
	}
	return KeyEvent{VK: uint32(ev.Rawcode), Scan: uint32(ev.Keycode), Down: down}, true
}
