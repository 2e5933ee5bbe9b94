// Package notify entrega en segundo plano los avisos de alertas (email, Kafka, log).
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

var _ inventory.Notifier = (*Dispatcher)(nil)

// Sender entrega un aviso por un canal concreto.
type Sender interface {
	Name() string
	Send(ctx context.Context, notice inventory.Notice) error
}

// Options tamaño de la cola y del pool de workers.
type Options struct {
	Buffer      int
	Workers     int
	SendTimeout time.Duration
}

// Dispatcher cola acotada con workers que reparten cada aviso a todos los senders.
// Notify nunca bloquea: con la cola llena el aviso se descarta y se registra.
type Dispatcher struct {
	queue   chan inventory.Notice
	senders []Sender
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher arranca opts.Workers goroutines consumiendo la cola.
func NewDispatcher(opts Options, log zerolog.Logger, senders ...Sender) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Buffer < 0 {
		opts.Buffer = 0
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	d := &Dispatcher{
		queue:   make(chan inventory.Notice, opts.Buffer),
		senders: senders,
		timeout: opts.SendTimeout,
		log:     log.With().Str("component", "notify").Logger(),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Notify encola el aviso sin bloquear.
func (d *Dispatcher) Notify(notice inventory.Notice) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("alert_id", notice.AlertID).Msg("dispatcher cerrado, aviso descartado")
		return
	}
	select {
	case d.queue <- notice:
	default:
		d.log.Warn().
			Str("alert_id", notice.AlertID).
			Str("product_id", notice.ProductID).
			Msg("cola de avisos llena, aviso descartado")
	}
}

// Close deja de aceptar avisos y espera a que los workers vacíen la cola o venza ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cerrar dispatcher: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for notice := range d.queue {
		for _, s := range d.senders {
			d.send(s, notice)
		}
	}
}

// send aísla cada sender: un error o panic se registra y no afecta al resto.
func (d *Dispatcher) send(s Sender, notice inventory.Notice) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("sender", s.Name()).Interface("panic", r).Msg("sender falló")
		}
	}()
	if err := s.Send(ctx, notice); err != nil {
		d.log.Warn().Err(err).
			Str("sender", s.Name()).
			Str("alert_id", notice.AlertID).
			Str("product_id", notice.ProductID).
			Msg("no se pudo entregar el aviso")
	}
}
