package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	err   error
	delay time.Duration
}

func (f *fakeSender) Send(recipient, subject, body string) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recipient)
	return f.err
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestDispatcher(sender Sender, timeout time.Duration) (*Dispatcher, prometheus.Counter) {
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_notification_failures_total"})
	return NewDispatcher(sender, zerolog.Nop(), failures, timeout), failures
}

func TestDispatchDelivers(t *testing.T) {
	sender := &fakeSender{}
	d, failures := newTestDispatcher(sender, time.Second)

	d.Dispatch("asha@example.com", "Violation report received", "body")
	d.Wait()

	require.Equal(t, []string{"asha@example.com"}, sender.recipients())
	assert.Equal(t, 0.0, testutil.ToFloat64(failures))
}

func TestDispatchSwallowsFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp: connection refused")}
	d, failures := newTestDispatcher(sender, time.Second)

	d.Dispatch("asha@example.com", "subject", "body")
	d.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(failures))
}

func TestDispatchDoesNotBlockCaller(t *testing.T) {
	sender := &fakeSender{delay: 200 * time.Millisecond}
	d, _ := newTestDispatcher(sender, time.Second)

	start := time.Now()
	d.Dispatch("slow@example.com", "subject", "body")
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 100*time.Millisecond)
	d.Wait()
}

func TestDispatchTimesOutSlowSender(t *testing.T) {
	sender := &fakeSender{delay: 300 * time.Millisecond}
	d, failures := newTestDispatcher(sender, 50*time.Millisecond)

	d.Dispatch("stuck@example.com", "subject", "body")
	d.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(failures))
}
