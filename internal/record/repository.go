package record

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("record not found")

type RecordRepository struct{}

type RecordRepositoryInterface interface {
	Create(tx *sql.Tx, kind Kind, rec *Record) error
	GetByIDAndUser(db *sql.DB, kind Kind, id, userID string) (*Record, error)
	ListByUser(db *sql.DB, kind Kind, userID string) ([]*Record, error)
	Update(tx *sql.Tx, kind Kind, rec *Record) error
	Delete(tx *sql.Tx, kind Kind, id, userID string) error
}

func NewRecordRepository() RecordRepositoryInterface {
	return &RecordRepository{}
}

// Every read, update and delete below filters by (id, user_id): a record
// owned by someone else scans the same as one that does not exist.

func (r *RecordRepository) Create(tx *sql.Tx, kind Kind, rec *Record) error {
	var query string
	var err error

	if kind.HasEmoji {
		query = fmt.Sprintf(`
			INSERT INTO %s (
				id, user_id, %s, amount, note, date, emoji, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		`, kind.Table, kind.LabelCol)
		_, err = tx.Exec(query, rec.ID, rec.UserID, kind.Label(rec), rec.Amount, rec.Note, rec.Date, rec.Emoji)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (
				id, user_id, %s, amount, note, date, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		`, kind.Table, kind.LabelCol)
		_, err = tx.Exec(query, rec.ID, rec.UserID, kind.Label(rec), rec.Amount, rec.Note, rec.Date)
	}

	if err != nil {
		logrus.WithError(err).Errorf("Failed to create %s", kind.Name)
		return err
	}

	return nil
}

func (r *RecordRepository) GetByIDAndUser(db *sql.DB, kind Kind, id, userID string) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, kind.columns(), kind.Table)

	row := db.QueryRow(query, id, userID)

	rec, err := kind.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

func (r *RecordRepository) ListByUser(db *sql.DB, kind Kind, userID string) ([]*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY date DESC
	`, kind.columns(), kind.Table)

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Empty slice, not nil: a user with no records gets [] on the wire.
	records := []*Record{}

	for rows.Next() {
		rec, err := kind.scan(rows)
		if err != nil {
			logrus.Errorf("Error scanning %s row: %v", kind.Name, err)
			continue
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *RecordRepository) Update(tx *sql.Tx, kind Kind, rec *Record) error {
	var query string
	var result sql.Result
	var err error

	if kind.HasEmoji {
		query = fmt.Sprintf(`
			UPDATE %s
			SET %s = $1, amount = $2, note = $3, date = $4, emoji = $5, updated_at = NOW()
			WHERE id = $6 AND user_id = $7
		`, kind.Table, kind.LabelCol)
		result, err = tx.Exec(query, kind.Label(rec), rec.Amount, rec.Note, rec.Date, rec.Emoji, rec.ID, rec.UserID)
	} else {
		query = fmt.Sprintf(`
			UPDATE %s
			SET %s = $1, amount = $2, note = $3, date = $4, updated_at = NOW()
			WHERE id = $5 AND user_id = $6
		`, kind.Table, kind.LabelCol)
		result, err = tx.Exec(query, kind.Label(rec), rec.Amount, rec.Note, rec.Date, rec.ID, rec.UserID)
	}

	if err != nil {
		logrus.WithError(err).Errorf("Failed to update %s", kind.Name)
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

func (r *RecordRepository) Delete(tx *sql.Tx, kind Kind, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, kind.Table)

	result, err := tx.Exec(query, id, userID)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to delete %s", kind.Name)
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

func (k Kind) columns() string {
	if k.HasEmoji {
		return fmt.Sprintf("id, user_id, %s, amount, note, date, emoji, created_at, updated_at", k.LabelCol)
	}
	return fmt.Sprintf("id, user_id, %s, amount, note, date, created_at, updated_at", k.LabelCol)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (k Kind) scan(row rowScanner) (*Record, error) {
	var rec Record
	var label string
	var err error

	if k.HasEmoji {
		err = row.Scan(
			&rec.ID,
			&rec.UserID,
			&label,
			&rec.Amount,
			&rec.Note,
			&rec.Date,
			&rec.Emoji,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
	} else {
		err = row.Scan(
			&rec.ID,
			&rec.UserID,
			&label,
			&rec.Amount,
			&rec.Note,
			&rec.Date,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
	}
	if err != nil {
		return nil, err
	}

	k.SetLabel(&rec, label)
	return &rec, nil
}
