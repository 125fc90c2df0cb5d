package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher sends messages on detached goroutines so callers never wait for
// delivery. Each send is independent; a failure is reported to the error
// callback and does not affect other sends.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	onError  func(chatID string, err error)
	wg       sync.WaitGroup
}

// NewDispatcher wraps n. Failed sends are logged on logger.
func NewDispatcher(n Notifier, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		timeout:  timeout,
		onError: func(chatID string, err error) {
			logger.Error().Err(err).Str("chat_id", chatID).Msg("reminder delivery failed")
		},
	}
}

// OnError replaces the failure callback.
func (d *Dispatcher) OnError(fn func(chatID string, err error)) {
	d.onError = fn
}

// Dispatch starts delivery of text to chatID and returns immediately.
func (d *Dispatcher) Dispatch(chatID, text string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.onError(chatID, fmt.Errorf("panic during send: %v", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Send(ctx, chatID, text); err != nil {
			d.onError(chatID, err)
		}
	}()
}

// Wait blocks until every dispatched send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
