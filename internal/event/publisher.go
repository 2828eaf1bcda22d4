package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ledger-service/shared/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// LedgerPublisher publishes ledger events to the ledger_events queue.
type LedgerPublisher struct {
	conn     *RabbitMQConnection
	channel  amqpChannel
	mu       sync.Mutex
	declared bool

	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
	lastPublishUnix   atomic.Int64
}

func NewLedgerPublisher(conn *RabbitMQConnection) *LedgerPublisher {
	return &LedgerPublisher{conn: conn, channel: conn.Channel}
}

func newLedgerPublisherWithChannel(ch amqpChannel) *LedgerPublisher {
	return &LedgerPublisher{channel: ch}
}

func (p *LedgerPublisher) PublishEvent(ctx context.Context, event LedgerEvent) error {
	body, err := utils.SerializeModel(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared {
		_, err := p.channel.QueueDeclare(
			LedgerQueue, // queue name
			true,        // durable
			false,       // delete when unused
			false,       // exclusive
			false,       // no-wait
			nil,         // arguments
		)
		if err != nil {
			p.messagesFailed.Add(1)
			return fmt.Errorf("failed to declare queue: %w", err)
		}
		p.declared = true
	}

	now := time.Now()
	err = p.channel.PublishWithContext(
		ctx,
		"",          // exchange
		LedgerQueue, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         string(event.EventType),
			Body:         body,
			Timestamp:    now,
		},
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish ledger event: %w", err)
	}

	p.messagesPublished.Add(1)
	p.lastPublishUnix.Store(now.UnixNano())

	slog.Info("Ledger event published",
		"queue", LedgerQueue,
		"event_type", event.EventType,
		"trader_id", event.TraderID,
	)
	return nil
}

func (p *LedgerPublisher) HealthCheck() PublisherHealthStatus {
	status := PublisherHealthStatus{
		IsHealthy:         p.conn == nil || !p.conn.IsClosed(),
		MessagesPublished: p.messagesPublished.Load(),
		MessagesFailed:    p.messagesFailed.Load(),
		Queue:             LedgerQueue,
	}
	if last := p.lastPublishUnix.Load(); last > 0 {
		status.LastPublishTime = time.Unix(0, last)
	}
	return status
}

type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}
