package expense

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type ExpenseRepository struct{}

type ExpenseRepositoryInterface interface {
	Create(tx *sql.Tx, expense *Expense) (int, error)
	ListByUser(db *sql.DB, userID int, filter Filter) ([]*Expense, error)
	Update(tx *sql.Tx, expense *Expense) error
	Delete(tx *sql.Tx, id, userID int) error
	TotalByUser(db *sql.DB, userID int) (float64, error)
}

func NewExpenseRepository() ExpenseRepositoryInterface {
	return &ExpenseRepository{}
}

func (r *ExpenseRepository) Create(
	tx *sql.Tx,
	expense *Expense,
) (int, error) {
	query := `
		INSERT INTO expenses (
			user_id, date, amount, category, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		query,
		expense.UserID,
		expense.Date,
		expense.Amount,
		expense.Category,
		expense.Notes,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)

	if err != nil {
		logrus.WithError(err).Error("Failed to create expense")
		return 0, err
	}

	return expense.ID, nil
}

// ListByUser returns the user's expenses matching the filter, newest first.
func (r *ExpenseRepository) ListByUser(
	db *sql.DB,
	userID int,
	filter Filter,
) ([]*Expense, error) {
	query := `
		SELECT
			id, user_id, date, amount, category, notes,
			created_at, updated_at
		FROM expenses
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
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

	expenses := []*Expense{}

	for rows.Next() {
		var e Expense
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Date,
			&e.Amount,
			&e.Category,
			&e.Notes,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning expense row: ", err)
			continue
		}
		expenses = append(expenses, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return expenses, nil
}

// Update rewrites the record matched by both id and owner. A non-owned id
// behaves exactly like a missing one.
func (r *ExpenseRepository) Update(
	tx *sql.Tx,
	expense *Expense,
) error {
	query := `
		UPDATE expenses
		SET date = $1,
		    amount = $2,
		    category = $3,
		    notes = $4,
		    updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(
		query,
		expense.Date,
		expense.Amount,
		expense.Category,
		expense.Notes,
		expense.ID,
		expense.UserID,
	).Scan(&expense.CreatedAt, &expense.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logrus.WithError(err).Error("Failed to update expense")
		return err
	}

	return nil
}

// Delete removes the record matched by both id and owner.
func (r *ExpenseRepository) Delete(
	tx *sql.Tx,
	id, userID int,
) error {
	query := `
		DELETE FROM expenses
		WHERE id = $1 AND user_id = $2
	`

	result, err := tx.Exec(query, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete expense")
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

// TotalByUser sums all of the user's expenses.
func (r *ExpenseRepository) TotalByUser(db *sql.DB, userID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1
	`

	var total float64
	if err := db.QueryRow(query, userID).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
