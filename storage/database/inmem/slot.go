package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/schedule"
)

type slotRepository struct {
	db *DB
}

var _ schedule.Repository = (*slotRepository)(nil)

func NewScheduleRepository(db *DB) schedule.Repository {
	return &slotRepository{db: db}
}

func (repo *slotRepository) query() []schedule.Slot {
	slots := make([]schedule.Slot, 0, len(repo.db.slot.table))
	for _, s := range repo.db.slot.table {
		slots = append(slots, *s)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		if slots[i].PeriodStart != slots[j].PeriodStart {
			return slots[i].PeriodStart < slots[j].PeriodStart
		}
		return slots[i].ID < slots[j].ID
	})
	return slots
}

func (repo *slotRepository) CreateSlot(ctx context.Context, slot schedule.Slot, exec ...core.DBExecutor) (schedule.Slot, error) {
	repo.db.slot.mutex.Lock()
	defer repo.db.slot.mutex.Unlock()

	slot.ID = uuid.New().String()
	repo.db.slot.table[slot.ID] = &slot
	return slot, nil
}

func (repo *slotRepository) GetSlot(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Slot, error) {
	repo.db.slot.mutex.RLock()
	defer repo.db.slot.mutex.RUnlock()

	if s, ok := repo.db.slot.table[id]; ok {
		return *s, nil
	}
	return schedule.Slot{}, schedule.ErrNotFound
}

func (repo *slotRepository) QuerySlots(ctx context.Context, filter *schedule.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]schedule.Slot, error) {
	repo.db.slot.mutex.RLock()
	defer repo.db.slot.mutex.RUnlock()

	slots := repo.query()
	if filter == nil || filter.IsEmpty() {
		return slots, nil
	}

	matches := make([]schedule.Slot, 0, len(slots))
	for _, s := range slots {
		if filter.Date != "" && s.Date != filter.Date {
			continue
		}
		if filter.WeekStart != "" && !inWeek(s.Date, filter.WeekStart) {
			continue
		}
		if filter.MentorID != "" && s.MentorID != filter.MentorID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		matches = append(matches, s)
	}
	return matches, nil
}

func (repo *slotRepository) StartSlot(ctx context.Context, id string, startedAt time.Time, exec ...core.DBExecutor) (schedule.Slot, error) {
	repo.db.slot.mutex.Lock()
	defer repo.db.slot.mutex.Unlock()

	s, ok := repo.db.slot.table[id]
	if !ok {
		return schedule.Slot{}, schedule.ErrNotFound
	}
	if s.Status != schedule.StatusPlanned {
		return schedule.Slot{}, schedule.ErrInvalidTransition
	}
	s.Status = schedule.StatusInProgress
	s.StartedAt = null.TimeFrom(startedAt)
	s.UpdatedAt = startedAt
	return *s, nil
}

func (repo *slotRepository) EndSlot(ctx context.Context, id string, completedAt time.Time, exec ...core.DBExecutor) (schedule.Slot, error) {
	repo.db.slot.mutex.Lock()
	defer repo.db.slot.mutex.Unlock()

	s, ok := repo.db.slot.table[id]
	if !ok {
		return schedule.Slot{}, schedule.ErrNotFound
	}
	if s.Status != schedule.StatusInProgress {
		return schedule.Slot{}, schedule.ErrInvalidTransition
	}
	s.Status = schedule.StatusCompleted
	s.CompletedAt = null.TimeFrom(completedAt)
	s.UpdatedAt = completedAt
	return *s, nil
}

func (repo *slotRepository) ResetSlot(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Slot, error) {
	repo.db.slot.mutex.Lock()
	defer repo.db.slot.mutex.Unlock()

	s, ok := repo.db.slot.table[id]
	if !ok {
		return schedule.Slot{}, schedule.ErrNotFound
	}
	if s.Status == schedule.StatusPlanned {
		return schedule.Slot{}, schedule.ErrInvalidTransition
	}
	s.Status = schedule.StatusPlanned
	s.StartedAt = null.Time{}
	s.CompletedAt = null.Time{}
	s.UpdatedAt = time.Now().UTC()
	return *s, nil
}

func (repo *slotRepository) DeleteSlot(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.slot.mutex.Lock()
	defer repo.db.slot.mutex.Unlock()

	if _, ok := repo.db.slot.table[id]; !ok {
		return schedule.ErrNotFound
	}

	repo.db.plan.mutex.RLock()
	for _, p := range repo.db.plan.table {
		if p.SlotID == id {
			repo.db.plan.mutex.RUnlock()
			return schedule.ErrSlotReferenced
		}
	}
	repo.db.plan.mutex.RUnlock()

	delete(repo.db.slot.table, id)
	return nil
}

// inWeek reports whether date falls within the 7 days starting at weekStart;
// both are YYYY-MM-DD. Unparseable values never match.
func inWeek(date, weekStart string) bool {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	ws, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return false
	}
	return !d.Before(ws) && d.Before(ws.AddDate(0, 0, 7))
}
