package activity

import (
	"database/sql"

	"github.com/sirupsen/logrus"
)

type ActivityRepository struct{}

type ActivityRepositoryInterface interface {
	Append(tx *sql.Tx, entry *Entry) error
	ListByUser(db *sql.DB, userID string, limit int) ([]*Entry, error)
}

func NewActivityRepository() ActivityRepositoryInterface {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Append(tx *sql.Tx, entry *Entry) error {
	query := `
		INSERT INTO activity_log (
			user_id, kind, record_id, action, created_at
		)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	err := tx.QueryRow(
		query,
		entry.UserID,
		entry.Kind,
		entry.RecordID,
		entry.Action,
	).Scan(&entry.ID)

	if err != nil {
		logrus.WithError(err).Error("Failed to append activity entry")
		return err
	}

	return nil
}

func (r *ActivityRepository) ListByUser(db *sql.DB, userID string, limit int) ([]*Entry, error) {
	query := `
		SELECT id, user_id, kind, record_id, action, created_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*Entry{}

	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Kind,
			&e.RecordID,
			&e.Action,
			&e.CreatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning activity row: ", err)
			continue
		}
		entries = append(entries, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
