package main

import (
	"net/http"

	"expense_tracker/internal/config"
	"expense_tracker/internal/db"
	"expense_tracker/internal/expense"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/queue"
	"expense_tracker/internal/report"
	"expense_tracker/internal/saving"
	"expense_tracker/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	database := db.Init(&cfg.DB)
	defer func() {
		if err := database.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close database connection")
		}
	}()

	if err := db.Migrate(&cfg.DB); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	conn := queue.SetupRabbitMQ(&cfg.RabbitMQ)
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.Fatalf("Failed to close RabbitMQ connection")
		}
	}()

	consumerChannel, err := queue.CreateChannel(conn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create RabbitMQ channel")
	}

	if _, err := queue.DeclareQueue(consumerChannel, cfg.Report.Queue); err != nil {
		logrus.WithError(err).Fatal("Failed to declare RabbitMQ queue")
	}

	if err := consumerChannel.Close(); err != nil {
		logrus.WithError(err).Fatal("Failed to close RabbitMQ channel")
	}

	// Initialize Prometheus metrics
	observability.InitMetrics()
	logrus.Info("Metrics initialized")

	// Start metrics HTTP server for Prometheus scraping
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logrus.Info("Worker metrics server started on :8088")
		if err := http.ListenAndServe(":8088", nil); err != nil {
			logrus.WithError(err).Fatal("Failed to start metrics server")
		}
	}()

	deps := worker.Deps{
		DB:       database,
		Reports:  report.NewReportRepository(),
		Expenses: expense.NewExpenseRepository(),
		Savings:  saving.NewSavingRepository(),
		Report:   cfg.Report,
	}

	for i := 1; i <= 3; i++ {
		go worker.StartWorker(conn, deps, i)
	}

	select {}
}
