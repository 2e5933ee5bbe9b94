package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

type recordingSender struct {
	name string
	err  error

	mu      sync.Mutex
	notices []inventory.Notice
}

func (s *recordingSender) Name() string { return s.name }

func (s *recordingSender) Send(_ context.Context, n inventory.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notices)
}

type panicSender struct{}

func (panicSender) Name() string { return "panic" }
func (panicSender) Send(context.Context, inventory.Notice) error {
	panic("smtp caído")
}

// blockingSender avisa en started y espera release antes de devolver.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSender) Name() string { return "blocking" }
func (s *blockingSender) Send(context.Context, inventory.Notice) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return nil
}

func notice(id string) inventory.Notice {
	return inventory.Notice{AlertID: id, AlertType: "LOW_STOCK", ProductID: "p-" + id, Subject: "Stock bajo"}
}

// ─── Dispatcher ───────────────────────────────────────────────────────────────

func TestDispatcher_FansOutToEverySender(t *testing.T) {
	a := &recordingSender{name: "a"}
	b := &recordingSender{name: "b"}
	d := NewDispatcher(Options{Buffer: 10, Workers: 2}, zerolog.Nop(), a, b)

	for _, id := range []string{"1", "2", "3"} {
		d.Notify(notice(id))
	}
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 3, a.count())
	assert.Equal(t, 3, b.count())
}

func TestDispatcher_SenderFailureIsIsolated(t *testing.T) {
	failing := &recordingSender{name: "email", err: errors.New("smtp: conexión rechazada")}
	ok := &recordingSender{name: "log"}
	d := NewDispatcher(Options{Buffer: 4, Workers: 1}, zerolog.Nop(), panicSender{}, failing, ok)

	d.Notify(notice("1"))
	d.Notify(notice("2"))
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 2, failing.count())
	assert.Equal(t, 2, ok.count())
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	blocker := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	rec := &recordingSender{name: "rec"}
	d := NewDispatcher(Options{Buffer: 1, Workers: 1}, zerolog.Nop(), blocker, rec)

	d.Notify(notice("1"))
	<-blocker.started // el worker está ocupado con "1"

	done := make(chan struct{})
	go func() {
		d.Notify(notice("2")) // ocupa el buffer
		d.Notify(notice("3")) // cola llena: se descarta
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify bloqueó con la cola llena")
	}

	close(blocker.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, rec.count())
}

func TestDispatcher_NotifyAfterCloseIsDropped(t *testing.T) {
	rec := &recordingSender{name: "rec"}
	d := NewDispatcher(Options{Buffer: 1, Workers: 1}, zerolog.Nop(), rec)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() { d.Notify(notice("1")) })
	assert.Equal(t, 0, rec.count())
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	blocker := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher(Options{Buffer: 1, Workers: 1}, zerolog.Nop(), blocker)
	d.Notify(notice("1"))
	<-blocker.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(blocker.release)
}

// ─── Senders ──────────────────────────────────────────────────────────────────

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestEmailSender_Send(t *testing.T) {
	dialer := &fakeDialer{}
	s := &EmailSender{dialer: dialer, from: "alertas@vet.co", to: []string{"bodega@vet.co", "admin@vet.co"}}

	err := s.Send(context.Background(), inventory.Notice{Subject: "Stock bajo: AMX-500", Body: "Quedan 5"})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"Stock bajo: AMX-500"}, dialer.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"bodega@vet.co", "admin@vet.co"}, dialer.sent[0].GetHeader("To"))
}

func TestEmailSender_WrapsError(t *testing.T) {
	s := &EmailSender{dialer: &fakeDialer{err: errors.New("timeout")}, from: "a@b.co", to: []string{"c@d.co"}}
	err := s.Send(context.Background(), notice("1"))
	assert.ErrorContains(t, err, "enviar email")
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSender_PublishesEvent(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSender{writer: w}
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	err := s.Send(context.Background(), inventory.Notice{
		AlertID: "a1", AlertType: "EXPIRY", ProductID: "p1", SKU: "VAC-01", Body: "Vencido", CreatedAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "p1", string(msg.Key))
	assert.Equal(t, "EXPIRY", string(msg.Headers[0].Value))

	var ev alertEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, alertEvent{AlertID: "a1", Type: "EXPIRY", ProductID: "p1", SKU: "VAC-01", Message: "Vencido", CreatedAt: at}, ev)

	require.NoError(t, s.Close())
	assert.True(t, w.closed)
}
