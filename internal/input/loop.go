package input

import (
	"context"
	"errors"
	"log/slog"
)

// ErrHookUnsupported is returned where no low-level keyboard hook exists.
var ErrHookUnsupported = errors.New("low-level keyboard hook is not supported on this platform")

// Loop delivers hotkey actions to the thread that owns the capture session.
type Loop interface {
	// Run blocks until ctx is done or the loop is told to quit.
	Run(ctx context.Context) error
	// Post queues an action. It never blocks and may be called from any
	// goroutine.
	Post(a Action)
}

const chanLoopBacklog = 16

// ChanLoop runs posted actions on the goroutine that called Run.
type ChanLoop struct {
	actions chan Action
	exec    func(Action)
	logger  *slog.Logger
}

// NewChanLoop returns a loop that passes posted actions to exec.
func NewChanLoop(exec func(Action), logger *slog.Logger) *ChanLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChanLoop{actions: make(chan Action, chanLoopBacklog), exec: exec, logger: logger}
}

func (l *ChanLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-l.actions:
			l.exec(a)
		}
	}
}

func (l *ChanLoop) Post(a Action) {
	select {
	case l.actions <- a:
	default:
		l.logger.Warn("hotkey dropped, loop busy", "action", a.String())
	}
}
