package worker

import (
	"database/sql"

	"finance_tracker/internal/activity"
	"finance_tracker/internal/record"
	"finance_tracker/internal/utils"
)

func appendEntry(db *sql.DB, repo activity.ActivityRepositoryInterface, event *record.Event) error {
	entry := &activity.Entry{
		UserID:   event.UserID,
		Kind:     event.Kind,
		RecordID: event.RecordID,
		Action:   event.Action,
	}

	return utils.WithTransaction(db, func(tx *sql.Tx) error {
		return repo.Append(tx, entry)
	})
}
