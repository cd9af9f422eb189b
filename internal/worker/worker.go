package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"finance_tracker/internal/activity"
	"finance_tracker/internal/observability"
	"finance_tracker/internal/queue"
	"finance_tracker/internal/record"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxRetries = 3

func republishWithRetry(ch *amqp.Channel, msg *amqp.Delivery, retryCount int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	headers := amqp.Table{}
	if msg.Headers != nil {
		headers = msg.Headers
	}
	headers["x-retry-count"] = retryCount

	return ch.PublishWithContext(
		ctx,
		"",             // exchange
		msg.RoutingKey, // routing key (queue name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     headers,
		},
	)
}

// StartWorker consumes activity events and appends them to the activity
// log. Malformed events are dropped; persistence failures requeue the
// event up to maxRetries times.
func StartWorker(conn *amqp.Connection, db *sql.DB, repo activity.ActivityRepositoryInterface, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Worker %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Worker %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		queue.ActivityQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Fatalf("Worker %d failed to start consuming messages: %v", id, err)
		return
	}

	logrus.Infof("Worker %d started", id)

	for msg := range msgs {
		observability.GlobalMetrics.QueueMessagesConsumed.WithLabelValues(queue.ActivityQueue).Inc()

		var event record.Event
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logrus.Error("invalid activity event payload")
			msg.Nack(false, false)
			continue
		}

		if event.UserID == "" || event.RecordID == "" || event.Action == "" {
			logrus.Error("incomplete activity event, dropping")
			observability.GlobalMetrics.ActivityFailedTotal.WithLabelValues(event.Kind, "incomplete_event").Inc()
			msg.Nack(false, false)
			continue
		}

		retryCount := int32(0)
		if msg.Headers != nil {
			if count, ok := msg.Headers["x-retry-count"].(int32); ok {
				retryCount = count
			}
		}

		logrus.Infof(
			"Worker %d recording %s %s for user=%s (retry: %d)",
			id,
			event.Kind,
			event.Action,
			event.UserID,
			retryCount,
		)

		if err := appendEntry(db, repo, &event); err != nil {
			logrus.WithError(err).Error("Failed to append activity entry")

			if retryCount >= maxRetries {
				observability.GlobalMetrics.ActivityFailedTotal.WithLabelValues(event.Kind, "max_retries").Inc()
				msg.Nack(false, false)
				continue
			}

			logrus.Infof("Worker %d: append failed, requeuing (retry %d/%d)", id, retryCount+1, maxRetries)

			if err := republishWithRetry(ch, &msg, retryCount+1); err != nil {
				logrus.WithError(err).Error("Failed to republish activity event")
				observability.GlobalMetrics.ActivityFailedTotal.WithLabelValues(event.Kind, "republish_error").Inc()
				msg.Nack(false, false)
				continue
			}

			observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(queue.ActivityQueue).Inc()
			msg.Ack(false)
			continue
		}

		observability.GlobalMetrics.ActivityAppendedTotal.WithLabelValues(event.Kind, event.Action).Inc()
		msg.Ack(false)
	}
}
