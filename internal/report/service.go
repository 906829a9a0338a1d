package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"expense_tracker/internal/observability"
	"expense_tracker/internal/queue"
	"expense_tracker/internal/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ReportServiceInterface interface {
	Create(report *Report) error
	Get(id, userID int) (*Report, error)
	List(userID int) ([]*Report, error)
}

type ReportService struct {
	repo      ReportRepositoryInterface
	db        *sql.DB
	conn      *amqp.Connection
	queueName string
}

func NewReportService(repo ReportRepositoryInterface, db *sql.DB, conn *amqp.Connection, queueName string) ReportServiceInterface {
	return &ReportService{
		repo:      repo,
		db:        db,
		conn:      conn,
		queueName: queueName,
	}
}

// Create persists the report job and hands it to the worker queue.
func (s *ReportService) Create(report *Report) error {
	if report.UserID == 0 {
		return fmt.Errorf("invalid report payload")
	}
	if report.ReportType != TypeExpenses && report.ReportType != TypeSavings {
		return fmt.Errorf("invalid report type: %q", report.ReportType)
	}

	report.Status = StatusPending

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		id, err := s.repo.Create(tx, report)
		if err != nil {
			return err
		}
		report.ID = id
		return nil
	}); err != nil {
		return err
	}

	ch, err := queue.CreateChannel(s.conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := queue.DeclareQueue(ch, s.queueName); err != nil {
		return err
	}

	body, err := json.Marshal(ReportPayload{
		ID:         report.ID,
		UserID:     report.UserID,
		ReportType: report.ReportType,
		StartDate:  report.StartDate,
		EndDate:    report.EndDate,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ch.PublishWithContext(
		ctx,
		"",
		s.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		return err
	}

	observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(s.queueName).Inc()
	return nil
}

func (s *ReportService) Get(id, userID int) (*Report, error) {
	return s.repo.GetByID(s.db, id, userID)
}

func (s *ReportService) List(userID int) ([]*Report, error) {
	return s.repo.ListByUser(s.db, userID)
}
