package activity

import "time"

// Entry is one row of a user's activity feed, written by the worker from
// record mutation events. Kind is "expense" or "income", Action one of
// "created", "updated", "deleted".
type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	RecordID  string    `json:"record_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
