package inmemdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mentora/backend/core/plan"
	"github.com/mentora/backend/core/schedule"
)

func createSlot(t *testing.T, repo schedule.Repository, date, periodStart string) schedule.Slot {
	t.Helper()
	now := time.Now().UTC()
	slot, err := repo.CreateSlot(context.Background(), schedule.Slot{
		Date:        date,
		PeriodName:  "Morning",
		PeriodStart: periodStart,
		PeriodEnd:   "10:00",
		Classroom:   "Room 1",
		Subject:     "Mathematics",
		Level:       "Grade 5",
		MentorID:    "mentor-1",
		Status:      schedule.StatusPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateSlot() failed: %v", err)
	}
	return slot
}

func TestSlotRepository_transitions(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewScheduleRepository(db)

	slot := createSlot(t, repo, "2026-09-07", "08:30")

	started, err := repo.StartSlot(ctx, slot.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("StartSlot() failed: %v", err)
	}
	if started.Status != schedule.StatusInProgress || !started.StartedAt.Valid {
		t.Errorf("started slot = %+v", started)
	}

	if _, err = repo.StartSlot(ctx, slot.ID, time.Now().UTC()); err != schedule.ErrInvalidTransition {
		t.Errorf("second StartSlot() error = %v, want ErrInvalidTransition", err)
	}

	ended, err := repo.EndSlot(ctx, slot.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("EndSlot() failed: %v", err)
	}
	if ended.Status != schedule.StatusCompleted || !ended.CompletedAt.Valid || !ended.StartedAt.Valid {
		t.Errorf("ended slot = %+v", ended)
	}

	reset, err := repo.ResetSlot(ctx, slot.ID)
	if err != nil {
		t.Fatalf("ResetSlot() failed: %v", err)
	}
	if reset.Status != schedule.StatusPlanned || reset.StartedAt.Valid || reset.CompletedAt.Valid {
		t.Errorf("reset slot = %+v", reset)
	}

	if _, err = repo.ResetSlot(ctx, slot.ID); err != schedule.ErrInvalidTransition {
		t.Errorf("ResetSlot() on planned error = %v, want ErrInvalidTransition", err)
	}

	if _, err = repo.StartSlot(ctx, "nope", time.Now().UTC()); err != schedule.ErrNotFound {
		t.Errorf("StartSlot(unknown) error = %v, want ErrNotFound", err)
	}
}

// exactly one of N concurrent starters wins; the rest get ErrInvalidTransition
func TestSlotRepository_concurrentStart(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewScheduleRepository(db)

	slot := createSlot(t, repo, "2026-09-07", "08:30")

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.StartSlot(ctx, slot.ID, time.Now().UTC())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch err {
		case nil:
			wins++
		case schedule.ErrInvalidTransition:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != workers-1 {
		t.Errorf("wins = %d, conflicts = %d; want 1 and %d", wins, conflicts, workers-1)
	}
}

func TestSlotRepository_DeleteSlot(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewScheduleRepository(db)
	planRepo := NewPlanRepository(db)

	slot := createSlot(t, repo, "2026-09-07", "08:30")

	p, err := planRepo.CreatePlan(ctx, plan.Plan{StudentID: "student-1", SlotID: slot.ID})
	if err != nil {
		t.Fatalf("CreatePlan() failed: %v", err)
	}

	if err = repo.DeleteSlot(ctx, slot.ID); err != schedule.ErrSlotReferenced {
		t.Errorf("DeleteSlot() error = %v, want ErrSlotReferenced", err)
	}

	if err = planRepo.DeletePlan(ctx, p.ID); err != nil {
		t.Fatalf("DeletePlan() failed: %v", err)
	}
	if err = repo.DeleteSlot(ctx, slot.ID); err != nil {
		t.Errorf("DeleteSlot() failed: %v", err)
	}
	if _, err = repo.GetSlot(ctx, slot.ID); err != schedule.ErrNotFound {
		t.Errorf("GetSlot() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSlotRepository_QuerySlots(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewScheduleRepository(db)

	monday := createSlot(t, repo, "2026-09-07", "08:30")
	_ = createSlot(t, repo, "2026-09-09", "08:30")
	nextWeek := createSlot(t, repo, "2026-09-14", "08:30")

	slots, err := repo.QuerySlots(ctx, &schedule.QueryFilter{Date: "2026-09-07"}, nil)
	if err != nil {
		t.Fatalf("QuerySlots() failed: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != monday.ID {
		t.Errorf("date filter returned %d slots", len(slots))
	}

	slots, err = repo.QuerySlots(ctx, &schedule.QueryFilter{WeekStart: "2026-09-07"}, nil)
	if err != nil {
		t.Fatalf("QuerySlots() failed: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("week filter returned %d slots, want 2", len(slots))
	}
	for _, s := range slots {
		if s.ID == nextWeek.ID {
			t.Error("week filter leaked a slot from the following week")
		}
	}
}
