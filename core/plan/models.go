package plan

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
)

// Attendance statuses. A NULL status means attendance has not been marked yet.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLeft    = "left"
	StatusExcused = "excused"
)

// Plan is a per-student attendance record attached to a slot; one row per
// (student, slot). It may optionally carry the lesson the student works on
// during that slot.
type Plan struct {
	ID        string      `json:"id" db:"id"`
	StudentID string      `json:"student_id" db:"student_id"`
	SlotID    string      `json:"slot_id" db:"slot_id"`
	LessonID  null.String `json:"lesson_id" db:"lesson_id"`
	Status    null.String `json:"attendance_status" db:"attendance_status"`
	Notes     string      `json:"notes" db:"notes"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// Marked reports whether attendance has been recorded for this plan.
func (p *Plan) Marked() bool { return p.Status.Valid }

// NewPlan contains information needed to assign a student to a slot.
type NewPlan struct {
	StudentID string `json:"student_id" validate:"required"`
	SlotID    string `json:"slot_id" validate:"required"`
	LessonID  string `json:"lesson_id"`
	Notes     string `json:"notes"`
}

func (np *NewPlan) Validate(validate *validator.Validate, translator ut.Translator) error {
	np.StudentID = core.CleanString(np.StudentID)
	np.SlotID = core.CleanString(np.SlotID)
	np.LessonID = core.CleanString(np.LessonID)
	return validate.Struct(np)
}

// UpdateAttendance carries a new attendance status for a plan. An empty status
// clears the mark back to unset.
type UpdateAttendance struct {
	Status string `json:"status" validate:"omitempty,attstatus"`
}

func (ua *UpdateAttendance) Validate(validate *validator.Validate, translator ut.Translator) error {
	ua.Status = core.CleanString(ua.Status, true /* lower */)
	return validate.Struct(ua)
}

type QueryFilter struct {
	SlotID    string `query:"slot"`
	StudentID string `query:"student"`
	Status    string `query:"status"`
	Date      string `query:"date"`       // slot date, YYYY-MM-DD
	WeekStart string `query:"week_start"` // slot date within the 7 days from it
	Subject   string `query:"subject"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.SlotID == "" && qf.StudentID == "" && qf.Status == "" &&
		qf.Date == "" && qf.WeekStart == "" && qf.Subject == ""
}

func (qf *QueryFilter) Clean() {
	qf.SlotID = core.CleanString(qf.SlotID)
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Date = core.CleanString(qf.Date)
	qf.WeekStart = core.CleanString(qf.WeekStart)
	qf.Subject = core.CleanString(qf.Subject)
}
