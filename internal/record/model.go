package record

import "time"

// Record is a financial record owned by exactly one user. Category and
// Emoji are populated for expenses, Source for incomes; the Kind
// descriptor decides which of them exist on the wire.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category,omitempty"`
	Emoji     string    `json:"emoji,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is published to the activity queue after every successful record
// mutation. Action is one of "created", "updated", "deleted".
type Event struct {
	RecordID string `json:"record_id"`
	UserID   string `json:"user_id"`
	Kind     string `json:"kind"`
	Action   string `json:"action"`
}

// Kind describes one record variant. Repository, service and controller
// are all parametrized by it instead of being duplicated per variant.
type Kind struct {
	Name     string // "expense" / "income"
	Table    string
	LabelCol string // required string column: "category" / "source"
	HasEmoji bool
	ListKey  string // response key for listings
	ItemKey  string // response key for a single record
	Title    string // leading word in client messages

	RequiredMsg string
	NotFoundMsg string
}

var ExpenseKind = Kind{
	Name:        "expense",
	Table:       "expenses",
	LabelCol:    "category",
	HasEmoji:    true,
	ListKey:     "expenses",
	ItemKey:     "expense",
	Title:       "Expense",
	RequiredMsg: "Category and amount are required.",
	NotFoundMsg: "Expense not found.",
}

var IncomeKind = Kind{
	Name:        "income",
	Table:       "incomes",
	LabelCol:    "source",
	HasEmoji:    false,
	ListKey:     "incomes",
	ItemKey:     "income",
	Title:       "Income",
	RequiredMsg: "Source and amount are required.",
	NotFoundMsg: "Income not found.",
}

// Label reads the kind's required string field from a record.
func (k Kind) Label(r *Record) string {
	if k.LabelCol == "source" {
		return r.Source
	}
	return r.Category
}

// SetLabel writes the kind's required string field on a record.
func (k Kind) SetLabel(r *Record, v string) {
	if k.LabelCol == "source" {
		r.Source = v
	} else {
		r.Category = v
	}
}

// Public builds the client-facing shape of a record: only the fields that
// belong to this kind, with emoji always present (possibly "") on
// expenses.
func (k Kind) Public(r *Record) map[string]interface{} {
	out := map[string]interface{}{
		"id":         r.ID,
		"user_id":    r.UserID,
		k.LabelCol:   k.Label(r),
		"amount":     r.Amount,
		"note":       r.Note,
		"date":       r.Date,
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
	}
	if k.HasEmoji {
		out["emoji"] = r.Emoji
	}
	return out
}
