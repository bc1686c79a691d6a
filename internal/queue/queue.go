package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/config"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

const (
	BatchQueueName = "videosdb_batches"
	ExchangeName   = "videosdb"
)

// Handler processes one batch message
type Handler func(ctx context.Context, msg *models.BatchMessage) error

// Queue provides message queue operations
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// New connects to RabbitMQ and declares the batch topology, dead-lettering
// included.
func New(cfg config.QueueConfig) (*Queue, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q := &Queue{conn: conn, channel: channel}
	if err := q.declare(); err != nil {
		q.Close()
		return nil, err
	}
	if err := q.SetupDeadLetterQueue(); err != nil {
		q.Close()
		return nil, err
	}

	return q, nil
}

func (q *Queue) declare() error {
	err := q.channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = q.channel.QueueDeclare(
		BatchQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = q.channel.QueueBind(
		BatchQueueName,
		BatchQueueName,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// Close closes the queue connection
func (q *Queue) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// PublishBatch enqueues a batch run for the workers
func (q *Queue) PublishBatch(ctx context.Context, msg *models.BatchMessage) error {
	return q.publish(ctx, ExchangeName, BatchQueueName, msg, amqp.Table{retryHeader: 0}, "")
}

func (q *Queue) publish(ctx context.Context, exchange, key string, msg *models.BatchMessage, headers amqp.Table, expiration string) error {
	body, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	err = q.channel.PublishWithContext(ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			Headers:      headers,
			Expiration:   expiration,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish batch %s: %w", msg.BatchID, err)
	}

	return nil
}

// ConsumeBatches delivers batch messages to handler one at a time until ctx
// is done. A failed run is retried with backoff and dead-lettered once it
// runs out of retries. Undecodable messages are dropped.
func (q *Queue) ConsumeBatches(ctx context.Context, handler Handler) error {
	err := q.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := q.channel.Consume(
		BatchQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				q.handleDelivery(ctx, d, handler)
			}
		}
	}()

	return nil
}

func (q *Queue) handleDelivery(ctx context.Context, d amqp.Delivery, handler Handler) {
	msg, err := decodeMessage(d.Body)
	if err != nil {
		log.Printf("Dropping undecodable batch message: %v", err)
		d.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		if perr := q.PublishToRetryQueue(ctx, msg, retryCount(d.Headers), err.Error()); perr != nil {
			log.Printf("Failed to reschedule batch %s: %v", msg.BatchID, perr)
			d.Nack(false, true)
			return
		}
	}
	d.Ack(false)
}

// GetQueueDepth returns the number of messages in the queue
func (q *Queue) GetQueueDepth() (int, error) {
	info, err := q.channel.QueueInspect(BatchQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return info.Messages, nil
}

func encodeMessage(msg *models.BatchMessage) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch message: %w", err)
	}
	return body, nil
}

func decodeMessage(body []byte) (*models.BatchMessage, error) {
	var msg models.BatchMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch message: %w", err)
	}
	if msg.BatchID == "" {
		return nil, fmt.Errorf("batch message without batch id")
	}
	return &msg, nil
}
