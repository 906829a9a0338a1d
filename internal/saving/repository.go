package saving

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type SavingRepository struct{}

type SavingRepositoryInterface interface {
	Create(tx *sql.Tx, saving *Saving) (int, error)
	ListByUser(db *sql.DB, userID int, filter Filter) ([]*Saving, error)
	Update(tx *sql.Tx, saving *Saving) error
	Delete(tx *sql.Tx, id, userID int) error
	TotalByUser(db *sql.DB, userID int) (float64, error)
}

func NewSavingRepository() SavingRepositoryInterface {
	return &SavingRepository{}
}

func (r *SavingRepository) Create(
	tx *sql.Tx,
	saving *Saving,
) (int, error) {
	query := `
		INSERT INTO savings (
			user_id, date, amount, reason, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		query,
		saving.UserID,
		saving.Date,
		saving.Amount,
		saving.Reason,
	).Scan(&saving.ID, &saving.CreatedAt, &saving.UpdatedAt)

	if err != nil {
		logrus.WithError(err).Error("Failed to create saving")
		return 0, err
	}

	return saving.ID, nil
}

// ListByUser returns the user's savings matching the filter, newest first.
func (r *SavingRepository) ListByUser(
	db *sql.DB,
	userID int,
	filter Filter,
) ([]*Saving, error) {
	query := `
		SELECT
			id, user_id, date, amount, reason,
			created_at, updated_at
		FROM savings
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	savings := []*Saving{}

	for rows.Next() {
		var s Saving
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Date,
			&s.Amount,
			&s.Reason,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning saving row: ", err)
			continue
		}
		savings = append(savings, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return savings, nil
}

// Update rewrites the record matched by both id and owner.
func (r *SavingRepository) Update(
	tx *sql.Tx,
	saving *Saving,
) error {
	query := `
		UPDATE savings
		SET date = $1,
		    amount = $2,
		    reason = $3,
		    updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(
		query,
		saving.Date,
		saving.Amount,
		saving.Reason,
		saving.ID,
		saving.UserID,
	).Scan(&saving.CreatedAt, &saving.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logrus.WithError(err).Error("Failed to update saving")
		return err
	}

	return nil
}

// Delete removes the record matched by both id and owner.
func (r *SavingRepository) Delete(
	tx *sql.Tx,
	id, userID int,
) error {
	query := `
		DELETE FROM savings
		WHERE id = $1 AND user_id = $2
	`

	result, err := tx.Exec(query, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete saving")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// TotalByUser sums all of the user's savings.
func (r *SavingRepository) TotalByUser(db *sql.DB, userID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM savings
		WHERE user_id = $1
	`

	var total float64
	if err := db.QueryRow(query, userID).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
