package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

const (
	DeadLetterQueueName    = "videosdb_batches_dlq"
	DeadLetterExchangeName = "videosdb_dlq"
	RetryQueueName         = "videosdb_batches_retry"
	MaxRetries             = 3

	retryHeader    = "x-retry-count"
	reasonHeader   = "x-failure-reason"
	failedAtHeader = "x-failed-at"
)

// SetupDeadLetterQueue declares the dead letter exchange and queue, and the
// retry queue that dead-letters expired messages back to the batch queue.
func (q *Queue) SetupDeadLetterQueue() error {
	err := q.channel.ExchangeDeclare(
		DeadLetterExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	_, err = q.channel.QueueDeclare(
		DeadLetterQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	err = q.channel.QueueBind(
		DeadLetterQueueName,
		DeadLetterQueueName,
		DeadLetterExchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	retryArgs := amqp.Table{
		"x-dead-letter-exchange":    ExchangeName,
		"x-dead-letter-routing-key": BatchQueueName,
	}

	_, err = q.channel.QueueDeclare(
		RetryQueueName,
		true,
		false,
		false,
		false,
		retryArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare retry queue: %w", err)
	}

	return nil
}

// PublishToRetryQueue schedules msg for another attempt after a backoff, or
// dead-letters it when retries are exhausted.
func (q *Queue) PublishToRetryQueue(ctx context.Context, msg *models.BatchMessage, retries int, reason string) error {
	if retries >= MaxRetries {
		return q.PublishToDeadLetterQueue(ctx, msg, reason)
	}

	delay := calculateBackoffDelay(retries)
	headers := amqp.Table{retryHeader: retries + 1}
	if err := q.publish(ctx, "", RetryQueueName, msg, headers, fmt.Sprintf("%d", delay.Milliseconds())); err != nil {
		return fmt.Errorf("failed to publish to retry queue: %w", err)
	}

	log.Printf("Batch %s queued for retry #%d in %v", msg.BatchID, retries+1, delay)
	return nil
}

// PublishToDeadLetterQueue parks a failed batch message for inspection
func (q *Queue) PublishToDeadLetterQueue(ctx context.Context, msg *models.BatchMessage, reason string) error {
	headers := amqp.Table{
		reasonHeader:   reason,
		failedAtHeader: time.Now().Format(time.RFC3339),
	}
	if err := q.publish(ctx, DeadLetterExchangeName, DeadLetterQueueName, msg, headers, ""); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}

	log.Printf("Batch %s moved to dead letter queue: %s", msg.BatchID, reason)
	return nil
}

// RetryFromDLQ puts a dead-lettered batch back on the main queue
func (q *Queue) RetryFromDLQ(ctx context.Context, msg *models.BatchMessage) error {
	return q.PublishBatch(ctx, msg)
}

// ReplayDeadLetters moves up to limit dead-lettered batches back onto the main
// queue and returns how many were moved. Undecodable messages are discarded.
func (q *Queue) ReplayDeadLetters(ctx context.Context, limit int) (int, error) {
	replayed := 0
	for replayed < limit {
		if err := ctx.Err(); err != nil {
			return replayed, err
		}

		d, ok, err := q.channel.Get(DeadLetterQueueName, false)
		if err != nil {
			return replayed, fmt.Errorf("failed to read DLQ: %w", err)
		}
		if !ok {
			break
		}

		msg, err := decodeMessage(d.Body)
		if err != nil {
			log.Printf("Discarding undecodable dead letter: %v", err)
			d.Nack(false, false)
			continue
		}

		if err := q.RetryFromDLQ(ctx, msg); err != nil {
			d.Nack(false, true)
			return replayed, err
		}
		d.Ack(false)
		replayed++
	}

	return replayed, nil
}

// GetDLQDepth returns the number of messages in the dead letter queue
func (q *Queue) GetDLQDepth() (int, error) {
	info, err := q.channel.QueueInspect(DeadLetterQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect DLQ: %w", err)
	}

	return info.Messages, nil
}

// retryCount reads the retry header. AMQP tables may carry it as any integer
// width depending on the publisher.
func retryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

// calculateBackoffDelay doubles from ten seconds, capped at ten minutes
func calculateBackoffDelay(retries int) time.Duration {
	delay := 10 * time.Second * (1 << retries)
	if delay > 10*time.Minute || delay <= 0 {
		delay = 10 * time.Minute
	}
	return delay
}
