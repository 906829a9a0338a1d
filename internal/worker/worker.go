package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"expense_tracker/internal/config"
	"expense_tracker/internal/expense"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/report"
	"expense_tracker/internal/saving"
	"expense_tracker/internal/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxRetries = 3

// Deps bundles everything a report worker needs.
type Deps struct {
	DB       *sql.DB
	Reports  report.ReportRepositoryInterface
	Expenses expense.ExpenseRepositoryInterface
	Savings  saving.SavingRepositoryInterface
	Report   config.ReportConfig
}

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

// StartWorker consumes report jobs from the queue, renders the PDF, and
// records the outcome on the report row.
func StartWorker(conn *amqp.Connection, deps Deps, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Worker %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Worker %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		deps.Report.Queue,
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
		observability.GlobalMetrics.QueueMessagesConsumed.WithLabelValues(deps.Report.Queue).Inc()

		var payload report.ReportPayload
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			logrus.Error("invalid payload")
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
			"Worker %d processing report=%d type=%s for user=%d (retry: %d)",
			id,
			payload.ID,
			payload.ReportType,
			payload.UserID,
			retryCount,
		)

		startTime := time.Now()

		// Transaction 1: Mark as PROCESSING (commit immediately)
		if err := utils.WithTransaction(deps.DB, func(tx *sql.Tx) error {
			return deps.Reports.MarkProcessing(tx, payload.ID)
		}); err != nil {
			logrus.WithError(err).Error("Failed to mark report as processing")
			observability.GlobalMetrics.ReportsFailedTotal.WithLabelValues(payload.ReportType, "mark_processing_error").Inc()
			msg.Nack(false, true)
			continue
		}

		// Render the PDF (outside transaction)
		resultFile, renderErr := generateReport(&payload, deps)

		duration := time.Since(startTime).Seconds()
		observability.GlobalMetrics.ReportProcessingDuration.WithLabelValues(payload.ReportType).Observe(duration)

		// Transaction 2: Mark as SUCCESS or FAILED
		if err := utils.WithTransaction(deps.DB, func(tx *sql.Tx) error {
			if renderErr != nil {
				logrus.WithError(renderErr).Error("report generation failed")
				observability.GlobalMetrics.ReportsProcessedTotal.WithLabelValues(payload.ReportType, "failed").Inc()
				observability.GlobalMetrics.ReportsFailedTotal.WithLabelValues(payload.ReportType, "render_error").Inc()
				return deps.Reports.MarkFailed(tx, payload.ID, renderErr.Error())
			}
			observability.GlobalMetrics.ReportsProcessedTotal.WithLabelValues(payload.ReportType, "success").Inc()
			return deps.Reports.MarkSuccess(tx, payload.ID, resultFile)
		}); err != nil {
			logrus.WithError(err).Error("Failed to update report status")

			if retryCount >= maxRetries {
				if err := utils.WithTransaction(deps.DB, func(tx *sql.Tx) error {
					return deps.Reports.MarkFailed(tx, payload.ID, "max retries reached")
				}); err != nil {
					logrus.WithError(err).Error("Failed to mark report as failed after max retries")
				}
				observability.GlobalMetrics.ReportsFailedTotal.WithLabelValues(payload.ReportType, "max_retries").Inc()
				msg.Nack(false, false)
				continue
			}

			logrus.Infof("Worker %d: report failed, requeuing (retry %d/%d)", id, retryCount+1, maxRetries)

			if err := republishWithRetry(ch, &msg, retryCount+1); err != nil {
				logrus.WithError(err).Error("Failed to republish message")
				observability.GlobalMetrics.ReportsFailedTotal.WithLabelValues(payload.ReportType, "republish_error").Inc()
				msg.Nack(false, false)
				continue
			}

			observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(deps.Report.Queue).Inc()
			msg.Ack(false)
			continue
		}

		msg.Ack(false)
	}
}
