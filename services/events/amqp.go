package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"
)

// AMQP publishes events to a durable topic exchange, routed by event type.
type AMQP struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func DialAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declaring exchange: %w", err)
	}

	notifyClose := make(chan *amqp.Error, 1)
	conn.NotifyClose(notifyClose)
	go func() {
		if err := <-notifyClose; err != nil {
			slog.Error("broker connection closed", "error", err)
		}
	}()

	return &AMQP{conn: conn, exchange: exchange, ch: ch}, nil
}

func (a *AMQP) Publish(_ context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ch.Publish(a.exchange, e.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
}

// Consume binds a server-named queue to the exchange for the given routing
// pattern and streams decoded events until ctx is done.
func (a *AMQP) Consume(ctx context.Context, pattern string) (<-chan Event, error) {
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, err
	}
	if err := ch.QueueBind(q.Name, pattern, a.exchange, false, nil); err != nil {
		ch.Close()
		return nil, err
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal(d.Body, &e); err != nil {
					slog.Warn("dropping malformed event", "error", err)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ch.Close()
	return a.conn.Close()
}
