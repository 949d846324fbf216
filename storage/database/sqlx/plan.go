package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/plan"
)

const planColumns = `p.id, p.student_id, p.slot_id, p.lesson_id, p.attendance_status, p.notes, p.created_at, p.updated_at`

type planRepository struct {
	exec core.DBExecutor
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(exec core.DBExecutor) *planRepository {
	return &planRepository{exec: exec}
}

func (repo planRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to plan.ErrNotFound
func (repo planRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return plan.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo planRepository) CreatePlan(ctx context.Context, p plan.Plan, exec ...core.DBExecutor) (plan.Plan, error) {
	p.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO attendance_plan (id, student_id, slot_id, lesson_id, attendance_status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.StudentID, p.SlotID, p.LessonID, p.Status, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return plan.Plan{}, plan.ErrPlanExists
		}
		return plan.Plan{}, errors.Wrap(err, "inserting attendance plan")
	}
	return p, nil
}

func (repo planRepository) GetPlan(ctx context.Context, id string, exec ...core.DBExecutor) (plan.Plan, error) {
	var p plan.Plan
	err := repo.getExec(exec).GetContext(ctx, &p,
		`SELECT `+planColumns+` FROM attendance_plan p WHERE p.id = $1`, id)
	if err != nil {
		return plan.Plan{}, repo.trapNoRowsErr(err, "getting attendance plan")
	}
	return p, nil
}

func (repo planRepository) QueryPlans(ctx context.Context, filter *plan.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM attendance_plan p`
	var clauses []string
	var args []interface{}

	if filter != nil {
		// slot-side filters need the owning slot row
		if filter.Date != "" || filter.WeekStart != "" || filter.Subject != "" {
			query += ` JOIN schedule_slot s ON s.id = p.slot_id`
		}
		if filter.SlotID != "" {
			args = append(args, filter.SlotID)
			clauses = append(clauses, "p.slot_id = $"+itoa(len(args)))
		}
		if filter.StudentID != "" {
			args = append(args, filter.StudentID)
			clauses = append(clauses, "p.student_id = $"+itoa(len(args)))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			clauses = append(clauses, "p.attendance_status = $"+itoa(len(args)))
		}
		if filter.Date != "" {
			args = append(args, filter.Date)
			clauses = append(clauses, "s.date = $"+itoa(len(args)))
		}
		if filter.WeekStart != "" {
			args = append(args, filter.WeekStart)
			n := itoa(len(args))
			clauses = append(clauses, "s.date >= $"+n, "s.date < $"+n+"::date + 7")
		}
		if filter.Subject != "" {
			args = append(args, filter.Subject)
			clauses = append(clauses, "s.subject = $"+itoa(len(args)))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(ordering, "p.created_at ASC, p.id ASC")

	plans := []plan.Plan{}
	if err := repo.getExec(exec).SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance plans")
	}
	return plans, nil
}

func (repo planRepository) UpdatePlanAttendance(ctx context.Context, id string, status null.String, exec ...core.DBExecutor) (plan.Plan, error) {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE attendance_plan SET attendance_status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return plan.Plan{}, errors.Wrap(err, "updating attendance")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return plan.Plan{}, errors.Wrap(err, "updating attendance")
	}
	if n == 0 {
		return plan.Plan{}, plan.ErrNotFound
	}
	return repo.GetPlan(ctx, id, exec...)
}

func (repo planRepository) DeletePlan(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM attendance_plan WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance plan")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting attendance plan")
	}
	if n == 0 {
		return plan.ErrNotFound
	}
	return nil
}

func (repo planRepository) MarkSlotPlansPresent(ctx context.Context, slotID string, exec ...core.DBExecutor) (int, error) {
	res, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE attendance_plan SET attendance_status = $1, updated_at = $2 WHERE slot_id = $3`,
		plan.StatusPresent, time.Now().UTC(), slotID)
	if err != nil {
		return 0, errors.Wrap(err, "marking slot plans present")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "marking slot plans present")
	}
	return int(n), nil
}
