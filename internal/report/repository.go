package report

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

type ReportRepository struct{}

type ReportRepositoryInterface interface {
	Create(tx *sql.Tx, report *Report) (int, error)
	GetByID(db *sql.DB, id, userID int) (*Report, error)
	ListByUser(db *sql.DB, userID int) ([]*Report, error)
	MarkProcessing(tx *sql.Tx, id int) error
	MarkSuccess(tx *sql.Tx, id int, resultFile string) error
	MarkFailed(tx *sql.Tx, id int, errorMessage string) error
}

func NewReportRepository() ReportRepositoryInterface {
	return &ReportRepository{}
}

func (r *ReportRepository) Create(
	tx *sql.Tx,
	report *Report,
) (int, error) {
	query := `
		INSERT INTO reports (
			user_id, report_type, status, start_date, end_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		query,
		report.UserID,
		report.ReportType,
		report.Status,
		report.StartDate,
		report.EndDate,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)

	if err != nil {
		return 0, err
	}

	return report.ID, nil
}

// GetByID retrieves a report matched by both id and owner.
func (r *ReportRepository) GetByID(
	db *sql.DB,
	id, userID int,
) (*Report, error) {
	query := `
		SELECT
			id, user_id, report_type, status,
			start_date, end_date, result_file, error_message,
			created_at, updated_at
		FROM reports
		WHERE id = $1 AND user_id = $2
	`

	row := db.QueryRow(query, id, userID)

	var rep Report
	err := row.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.ReportType,
		&rep.Status,
		&rep.StartDate,
		&rep.EndDate,
		&rep.ResultFile,
		&rep.ErrorMessage,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &rep, nil
}

func (r *ReportRepository) ListByUser(
	db *sql.DB,
	userID int,
) ([]*Report, error) {
	query := `
		SELECT
			id, user_id, report_type, status,
			start_date, end_date, result_file, error_message,
			created_at, updated_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*Report{}

	for rows.Next() {
		var rep Report
		err := rows.Scan(
			&rep.ID,
			&rep.UserID,
			&rep.ReportType,
			&rep.Status,
			&rep.StartDate,
			&rep.EndDate,
			&rep.ResultFile,
			&rep.ErrorMessage,
			&rep.CreatedAt,
			&rep.UpdatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning report row: ", err)
			continue
		}
		reports = append(reports, &rep)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) MarkProcessing(
	tx *sql.Tx,
	id int,
) error {
	query := `
		UPDATE reports
		SET status = 'PROCESSING', updated_at = NOW()
		WHERE id = $1
	`
	_, err := tx.Exec(query, id)
	return err
}

func (r *ReportRepository) MarkSuccess(
	tx *sql.Tx,
	id int,
	resultFile string,
) error {
	query := `
		UPDATE reports
		SET status = 'SUCCESS',
		    result_file = $1,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := tx.Exec(query, resultFile, id)
	return err
}

func (r *ReportRepository) MarkFailed(
	tx *sql.Tx,
	id int,
	errorMessage string,
) error {
	query := `
		UPDATE reports
		SET status = 'FAILED',
		    error_message = $1,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := tx.Exec(query, errorMessage, id)
	return err
}
