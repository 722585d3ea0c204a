package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/multierr"
)

// ErrBufferFull is returned when the publish queue cannot take more events.
var ErrBufferFull = errors.New("event buffer full")

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event publisher closed")

// maxRecordedErrors caps the write failures Close reports individually.
const maxRecordedErrors = 5

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues events in memory and writes them from one goroutine.
type KafkaPublisher struct {
	w     messageWriter
	logg  *logger.Logger
	inbox chan kafka.Message
	done  chan struct{}

	mu      sync.RWMutex
	started bool
	closed  bool
	errs    error
	nerrs   int
	dropped int
}

// NewKafkaPublisher builds a publisher for the configured brokers and topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logg *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newKafkaPublisher(w, cfg.BufferSize, logg)
}

func newKafkaPublisher(w messageWriter, buf int, logg *logger.Logger) *KafkaPublisher {
	if buf <= 0 {
		buf = 1
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &KafkaPublisher{
		w:     w,
		logg:  logg,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
	}
}

// Start launches the writer loop; it drains the queue once Close is called.
func (p *KafkaPublisher) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.recordErr(err)
				p.logg.Error(p.logg.WithField(ctx, "event_key", string(m.Key)), "events.publish_failed", err)
			}
		}
	}()
}

// Publish encodes evt and enqueues it without waiting for the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	value, err := Encode(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:     []byte(evt.Key),
		Value:   value,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(evt.Type)}},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- msg:
		return nil
	default:
		p.logg.Warn(p.logg.WithField(ctx, "event_type", evt.Type), "events.buffer_full")
		return ErrBufferFull
	}
}

// Close stops accepting events, waits for the queue to flush and closes the
// writer. Write failures seen during the lifetime are returned combined.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	close(p.inbox)
	p.mu.Unlock()

	if started {
		<-p.done
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	errs := p.errs
	if p.dropped > 0 {
		errs = multierr.Append(errs, fmt.Errorf("%d more event write failures", p.dropped))
	}
	return multierr.Append(errs, p.w.Close())
}

func (p *KafkaPublisher) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nerrs >= maxRecordedErrors {
		p.dropped++
		return
	}
	p.nerrs++
	p.errs = multierr.Append(p.errs, err)
}
