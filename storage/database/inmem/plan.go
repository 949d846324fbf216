package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/plan"
)

type planRepository struct {
	db *DB
}

var _ plan.Repository = (*planRepository)(nil)

func NewPlanRepository(db *DB) plan.Repository {
	return &planRepository{db: db}
}

func (repo *planRepository) query() []plan.Plan {
	plans := make([]plan.Plan, 0, len(repo.db.plan.table))
	for _, p := range repo.db.plan.table {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.Before(plans[j].CreatedAt)
		}
		return plans[i].ID < plans[j].ID
	})
	return plans
}

func (repo *planRepository) CreatePlan(ctx context.Context, p plan.Plan, exec ...core.DBExecutor) (plan.Plan, error) {
	repo.db.plan.mutex.Lock()
	defer repo.db.plan.mutex.Unlock()

	for _, existing := range repo.db.plan.table {
		if existing.StudentID == p.StudentID && existing.SlotID == p.SlotID {
			return plan.Plan{}, plan.ErrPlanExists
		}
	}

	p.ID = uuid.New().String()
	repo.db.plan.table[p.ID] = &p
	return p, nil
}

func (repo *planRepository) GetPlan(ctx context.Context, id string, exec ...core.DBExecutor) (plan.Plan, error) {
	repo.db.plan.mutex.RLock()
	defer repo.db.plan.mutex.RUnlock()

	if p, ok := repo.db.plan.table[id]; ok {
		return *p, nil
	}
	return plan.Plan{}, plan.ErrNotFound
}

func (repo *planRepository) QueryPlans(ctx context.Context, filter *plan.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]plan.Plan, error) {
	repo.db.plan.mutex.RLock()
	defer repo.db.plan.mutex.RUnlock()

	plans := repo.query()
	if filter == nil || filter.IsEmpty() {
		return plans, nil
	}

	matches := make([]plan.Plan, 0, len(plans))
	for _, p := range plans {
		if filter.SlotID != "" && p.SlotID != filter.SlotID {
			continue
		}
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && p.Status.String != filter.Status {
			continue
		}
		if filter.Date != "" || filter.WeekStart != "" || filter.Subject != "" {
			slot, ok := repo.slotOf(p.SlotID)
			if !ok {
				continue
			}
			if filter.Date != "" && slot.date != filter.Date {
				continue
			}
			if filter.WeekStart != "" && !inWeek(slot.date, filter.WeekStart) {
				continue
			}
			if filter.Subject != "" && slot.subject != filter.Subject {
				continue
			}
		}
		matches = append(matches, p)
	}
	return matches, nil
}

type slotFields struct {
	date    string
	subject string
}

func (repo *planRepository) slotOf(slotID string) (slotFields, bool) {
	repo.db.slot.mutex.RLock()
	defer repo.db.slot.mutex.RUnlock()

	if s, ok := repo.db.slot.table[slotID]; ok {
		return slotFields{date: s.Date, subject: s.Subject}, true
	}
	return slotFields{}, false
}

func (repo *planRepository) UpdatePlanAttendance(ctx context.Context, id string, status null.String, exec ...core.DBExecutor) (plan.Plan, error) {
	repo.db.plan.mutex.Lock()
	defer repo.db.plan.mutex.Unlock()

	p, ok := repo.db.plan.table[id]
	if !ok {
		return plan.Plan{}, plan.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}

func (repo *planRepository) DeletePlan(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.plan.mutex.Lock()
	defer repo.db.plan.mutex.Unlock()

	if _, ok := repo.db.plan.table[id]; !ok {
		return plan.ErrNotFound
	}
	delete(repo.db.plan.table, id)
	return nil
}

func (repo *planRepository) MarkSlotPlansPresent(ctx context.Context, slotID string, exec ...core.DBExecutor) (int, error) {
	repo.db.plan.mutex.Lock()
	defer repo.db.plan.mutex.Unlock()

	now := time.Now().UTC()
	var n int
	for _, p := range repo.db.plan.table {
		if p.SlotID == slotID {
			p.Status = null.StringFrom(plan.StatusPresent)
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
