// README: Fire-and-forget SMS dispatch, decoupled from the payment path.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender delivers one text message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

const sendTimeout = 10 * time.Second

// Dispatcher sends messages asynchronously. Failures are logged and
// swallowed: a slow or broken SMS gateway must never fail or roll back a
// checkout or confirmation.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
}

func NewDispatcher(sender Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// Dispatch queues the message on its own goroutine and returns immediately.
// A nil-sender dispatcher (SMS disabled in config) is a no-op.
func (d *Dispatcher) Dispatch(to, body string) {
	if d == nil || d.sender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := d.sender.Send(ctx, to, body); err != nil {
			d.log.Warn("sms dispatch failed",
				zap.String("to", to),
				zap.Error(err))
		}
	}()
}
