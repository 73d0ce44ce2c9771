package notify

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Sender delivers one message. Implementations may block; the dispatcher
// keeps that off the request path.
type Sender interface {
	Send(recipient, subject, body string) error
}

// Dispatcher sends notifications best-effort: one attempt per event, off the
// caller's goroutine, failures logged and counted but never propagated. The
// authoritative state change has already committed by the time Dispatch runs.
type Dispatcher struct {
	sender   Sender
	log      zerolog.Logger
	failures prometheus.Counter
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(sender Sender, log zerolog.Logger, failures prometheus.Counter, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		sender:   sender,
		log:      log,
		failures: failures,
		timeout:  timeout,
	}
}

// Dispatch hands the message to a worker goroutine and returns immediately.
// A sender that exceeds the dispatcher timeout is abandoned; the stored
// state it was notifying about is unaffected either way.
func (d *Dispatcher) Dispatch(recipient, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		done := make(chan error, 1)
		go func() {
			done <- d.sender.Send(recipient, subject, body)
		}()

		select {
		case err := <-done:
			if err != nil {
				d.failures.Inc()
				d.log.Error().Err(err).
					Str("recipient", recipient).
					Str("subject", subject).
					Msg("notification delivery failed")
			}
		case <-time.After(d.timeout):
			d.failures.Inc()
			d.log.Error().
				Str("recipient", recipient).
				Str("subject", subject).
				Dur("timeout", d.timeout).
				Msg("notification delivery timed out")
		}
	}()
}

// Wait blocks until in-flight dispatches settle. Used on shutdown and in
// tests; normal operation never calls it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
