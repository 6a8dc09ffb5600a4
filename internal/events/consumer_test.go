package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	pulsar.Message
	payload []byte
}

func (m *fakeMessage) Payload() []byte { return m.payload }

type receiveResult struct {
	msg pulsar.Message
	err error
}

// fakeConsumer replays queued results, then blocks until the context ends.
type fakeConsumer struct {
	pulsar.Consumer

	mu       sync.Mutex
	queue    []receiveResult
	receives int
	acked    []pulsar.Message
	nacked   []pulsar.Message
}

func (f *fakeConsumer) Receive(ctx context.Context) (pulsar.Message, error) {
	f.mu.Lock()
	f.receives++
	if len(f.queue) > 0 {
		next := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return next.msg, next.err
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeConsumer) Ack(msg pulsar.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, msg)
	return nil
}

func (f *fakeConsumer) Nack(msg pulsar.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked = append(f.nacked, msg)
}

type fakeCounter struct {
	mu    sync.Mutex
	calls [][]string
}

func (f *fakeCounter) Increment(val ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, val)
}

func newTestConsumer(queue ...receiveResult) (*MenuEventConsumer, *fakeConsumer, *fakeCounter) {
	fake := &fakeConsumer{queue: queue}
	counter := &fakeCounter{}
	return &MenuEventConsumer{
		consumer:   fake,
		counter:    counter,
		minBackoff: time.Millisecond,
		maxBackoff: 4 * time.Millisecond,
	}, fake, counter
}

// runUntil runs the consumer until it has called Receive n times.
func runUntil(t *testing.T, c *MenuEventConsumer, fake *fakeConsumer, n int, handle Handler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, handle)
		close(done)
	}()

	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return fake.receives >= n
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestMenuEventConsumer_SettlesByOutcome(t *testing.T) {
	applied := &fakeMessage{payload: []byte(`{"action":"delete","menuId":"1"}`)}
	retried := &fakeMessage{payload: []byte(`{"action":"delete","menuId":"2"}`)}
	rejected := &fakeMessage{payload: []byte(`{"action":"delete","menuId":"3"}`)}
	malformed := &fakeMessage{payload: []byte(`{"action":`)}

	c, fake, counter := newTestConsumer(
		receiveResult{msg: applied},
		receiveResult{msg: retried},
		receiveResult{msg: rejected},
		receiveResult{msg: malformed},
	)

	var handled []string
	runUntil(t, c, fake, 5, func(ctx context.Context, event models.MenuEvent) (Outcome, error) {
		handled = append(handled, event.MenuID)
		switch event.MenuID {
		case "2":
			return OutcomeRetry, errors.New("connection refused")
		case "3":
			return OutcomeRejected, errors.New("bad menu")
		}
		return OutcomeApplied, nil
	})

	assert.Equal(t, []string{"1", "2", "3"}, handled)
	assert.Equal(t, []pulsar.Message{applied, rejected, malformed}, fake.acked)
	assert.Equal(t, []pulsar.Message{retried}, fake.nacked)
	assert.Equal(t, [][]string{
		{"delete", "applied"},
		{"delete", "retry"},
		{"delete", "rejected"},
		{"unknown", "rejected"},
	}, counter.calls)
}

func TestMenuEventConsumer_BacksOffOnReceiveErrors(t *testing.T) {
	broken := errors.New("connection closed")
	c, fake, _ := newTestConsumer(
		receiveResult{err: broken},
		receiveResult{err: broken},
		receiveResult{err: broken},
		receiveResult{err: broken},
	)

	start := time.Now()
	runUntil(t, c, fake, 5, func(ctx context.Context, event models.MenuEvent) (Outcome, error) {
		t.Fatal("no event should be handled")
		return OutcomeApplied, nil
	})

	// 1 + 2 + 4 + 4 ms of backoff before the fifth receive
	assert.GreaterOrEqual(t, time.Since(start), 11*time.Millisecond)
	assert.Empty(t, fake.acked)
	assert.Empty(t, fake.nacked)
}
