//go:build !windows

package input

import (
	"context"
	"log/slog"
)

// NewLoop returns a channel loop. A low-level hook needs Windows, so asking
// for one yields a loop whose Run fails with ErrHookUnsupported.
func NewLoop(d *Dispatcher, logger *slog.Logger, lowLevel bool) Loop {
	if lowLevel {
		return unsupportedLoop{}
	}
	return NewChanLoop(d.Execute, logger)
}

type unsupportedLoop struct{}

func (unsupportedLoop) Run(context.Context) error { return ErrHookUnsupported }
func (unsupportedLoop) Post(Action)               {}
