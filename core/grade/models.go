package grade

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
)

// Grade stores a student's mark for a lesson as a raw percentage; the
// achievement level is derived from the percentage and cached alongside it.
// At most one grade exists per (student, lesson, plan).
type Grade struct {
	ID         string      `json:"id" db:"id"`
	StudentID  string      `json:"student_id" db:"student_id"`
	LessonID   string      `json:"lesson_id" db:"lesson_id"`
	MentorID   string      `json:"mentor_id" db:"mentor_id"`
	PlanID     null.String `json:"plan_id" db:"plan_id"`
	Percentage int         `json:"percentage" db:"percentage"`
	Level      null.String `json:"achievement_level" db:"achievement_level"`
	Notes      string      `json:"notes" db:"notes"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// UpsertGrade contains information needed to record (or re-record) a grade.
type UpsertGrade struct {
	StudentID  string `json:"student_id" validate:"required"`
	LessonID   string `json:"lesson_id" validate:"required"`
	PlanID     string `json:"plan_id"`
	Percentage int    `json:"percentage" validate:"min=0,max=100"`
	Notes      string `json:"notes"`
}

func (ug *UpsertGrade) Validate(validate *validator.Validate, translator ut.Translator) error {
	ug.StudentID = core.CleanString(ug.StudentID)
	ug.LessonID = core.CleanString(ug.LessonID)
	ug.PlanID = core.CleanString(ug.PlanID)
	return validate.Struct(ug)
}

type QueryFilter struct {
	StudentID string `query:"student"`
	LessonID  string `query:"lesson"`
	PlanID    string `query:"plan"`
	MentorID  string `query:"mentor"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.LessonID == "" && qf.PlanID == "" && qf.MentorID == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.LessonID = core.CleanString(qf.LessonID)
	qf.PlanID = core.CleanString(qf.PlanID)
	qf.MentorID = core.CleanString(qf.MentorID)
}
