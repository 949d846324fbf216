package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/schedule"
)

// selected columns; date goes out as text so Slot.Date stays YYYY-MM-DD
const slotColumns = `id, to_char(date, 'YYYY-MM-DD') AS date, period_name, period_start, period_end,
	classroom, subject, level, mentor_id, status, started_at, completed_at, created_at, updated_at`

type scheduleRepository struct {
	exec core.DBExecutor
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(exec core.DBExecutor) *scheduleRepository {
	return &scheduleRepository{exec: exec}
}

func (repo scheduleRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to schedule.ErrNotFound
func (repo scheduleRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return schedule.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo scheduleRepository) CreateSlot(ctx context.Context, slot schedule.Slot, exec ...core.DBExecutor) (schedule.Slot, error) {
	slot.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO schedule_slot
			(id, date, period_name, period_start, period_end, classroom, subject, level, mentor_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		slot.ID, slot.Date, slot.PeriodName, slot.PeriodStart, slot.PeriodEnd,
		slot.Classroom, slot.Subject, slot.Level, slot.MentorID, slot.Status,
		slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		return schedule.Slot{}, errors.Wrap(err, "inserting slot")
	}
	return slot, nil
}

func (repo scheduleRepository) GetSlot(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Slot, error) {
	var slot schedule.Slot
	err := repo.getExec(exec).GetContext(ctx, &slot,
		`SELECT `+slotColumns+` FROM schedule_slot WHERE id = $1`, id)
	if err != nil {
		return schedule.Slot{}, repo.trapNoRowsErr(err, "getting slot")
	}
	return slot, nil
}

func (repo scheduleRepository) QuerySlots(ctx context.Context, filter *schedule.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]schedule.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slot`
	var clauses []string
	var args []interface{}

	if filter != nil {
		if filter.Date != "" {
			args = append(args, filter.Date)
			clauses = append(clauses, "date = $"+itoa(len(args)))
		}
		if filter.WeekStart != "" {
			args = append(args, filter.WeekStart)
			n := itoa(len(args))
			clauses = append(clauses, "date >= $"+n, "date < $"+n+"::date + 7")
		}
		if filter.MentorID != "" {
			args = append(args, filter.MentorID)
			clauses = append(clauses, "mentor_id = $"+itoa(len(args)))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			clauses = append(clauses, "status = $"+itoa(len(args)))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(ordering, "date ASC, period_start ASC")

	slots := []schedule.Slot{}
	if err := repo.getExec(exec).SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying slots")
	}
	return slots, nil
}

// transition runs a conditional status update and reloads the slot. 0 rows
// affected means either the slot is gone (ErrNotFound) or its status changed
// under us (ErrInvalidTransition); a reload disambiguates.
func (repo scheduleRepository) transition(ctx context.Context, exec core.DBExecutor, id, update string, args ...interface{}) (schedule.Slot, error) {
	res, err := exec.ExecContext(ctx, update, args...)
	if err != nil {
		return schedule.Slot{}, errors.Wrap(err, "updating slot status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return schedule.Slot{}, errors.Wrap(err, "updating slot status")
	}
	if n == 0 {
		if _, err = repo.GetSlot(ctx, id, exec); err != nil {
			return schedule.Slot{}, err
		}
		return schedule.Slot{}, schedule.ErrInvalidTransition
	}
	return repo.GetSlot(ctx, id, exec)
}

func (repo scheduleRepository) StartSlot(ctx context.Context, id string, startedAt time.Time, exec ...core.DBExecutor) (schedule.Slot, error) {
	return repo.transition(ctx, repo.getExec(exec), id,
		`UPDATE schedule_slot SET status = $1, started_at = $2, updated_at = $2 WHERE id = $3 AND status = $4`,
		schedule.StatusInProgress, startedAt, id, schedule.StatusPlanned)
}

func (repo scheduleRepository) EndSlot(ctx context.Context, id string, completedAt time.Time, exec ...core.DBExecutor) (schedule.Slot, error) {
	return repo.transition(ctx, repo.getExec(exec), id,
		`UPDATE schedule_slot SET status = $1, completed_at = $2, updated_at = $2 WHERE id = $3 AND status = $4`,
		schedule.StatusCompleted, completedAt, id, schedule.StatusInProgress)
}

func (repo scheduleRepository) ResetSlot(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Slot, error) {
	return repo.transition(ctx, repo.getExec(exec), id,
		`UPDATE schedule_slot SET status = $1, started_at = NULL, completed_at = NULL, updated_at = $2
		 WHERE id = $3 AND status IN ($4, $5)`,
		schedule.StatusPlanned, time.Now().UTC(), id, schedule.StatusInProgress, schedule.StatusCompleted)
}

func (repo scheduleRepository) DeleteSlot(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM schedule_slot WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return schedule.ErrSlotReferenced
		}
		return errors.Wrap(err, "deleting slot")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting slot")
	}
	if n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}
