package schedule

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
)

// Slot statuses. A slot starts out planned, runs in_progress and ends
// completed. Cancelling is a reset back to planned, not a terminal state,
// so a mentor can redo a slot.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted}

// Slot is a scheduled lesson period: when, where, what and who leads it.
// The lifecycle fields (Status, StartedAt, CompletedAt) are mutated only by
// Service; started_at is set iff the slot has ever been started, completed_at
// iff it is completed.
type Slot struct {
	ID          string    `json:"id" db:"id"`
	Date        string    `json:"date" db:"date"` // YYYY-MM-DD
	PeriodName  string    `json:"period_name" db:"period_name"`
	PeriodStart string    `json:"period_start" db:"period_start"` // HH:MM
	PeriodEnd   string    `json:"period_end" db:"period_end"`     // HH:MM
	Classroom   string    `json:"classroom" db:"classroom"`
	Subject     string    `json:"subject" db:"subject"`
	Level       string    `json:"level" db:"level"`
	MentorID    string    `json:"mentor_id" db:"mentor_id"`
	Status      Status    `json:"status" db:"status"`
	StartedAt   null.Time `json:"started_at" db:"started_at"`     // UTC
	CompletedAt null.Time `json:"completed_at" db:"completed_at"` // UTC
	CreatedAt   time.Time `json:"created_at" db:"created_at"`     // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`     // UTC
}

func (s *Slot) IsPlanned() bool    { return s.Status == StatusPlanned }
func (s *Slot) IsInProgress() bool { return s.Status == StatusInProgress }
func (s *Slot) IsCompleted() bool  { return s.Status == StatusCompleted }

// Editable reports whether attendance on this slot may still be changed.
func (s *Slot) Editable() bool { return s.IsInProgress() }

// NewSlot contains information needed to create a new Slot. Slots are normally
// created by the scheduling process; the API and the admin seeder both go
// through this struct.
type NewSlot struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	PeriodName  string `json:"period_name"`
	PeriodStart string `json:"period_start" validate:"required,datetime=15:04"`
	PeriodEnd   string `json:"period_end" validate:"required,datetime=15:04"`
	Classroom   string `json:"classroom" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Level       string `json:"level" validate:"required"`
	MentorID    string `json:"mentor_id" validate:"required"`
}

func (ns *NewSlot) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.PeriodName = core.CleanString(ns.PeriodName)
	ns.Classroom = core.CleanString(ns.Classroom)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Level = core.CleanString(ns.Level)
	return validate.Struct(ns)
}

type QueryFilter struct {
	Date      string `query:"date"`       // YYYY-MM-DD
	WeekStart string `query:"week_start"` // YYYY-MM-DD; matches the 7 days from it
	MentorID  string `query:"mentor"`
	Status    Status `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Date == "" && qf.WeekStart == "" && qf.MentorID == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Date = core.CleanString(qf.Date)
	qf.WeekStart = core.CleanString(qf.WeekStart)
	qf.MentorID = core.CleanString(qf.MentorID)
}
