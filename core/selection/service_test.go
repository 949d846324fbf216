package selection

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/schedule"
)

type fakeSelectionRepo struct {
	selections map[string]Selection
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{selections: make(map[string]Selection)}
}

func (r *fakeSelectionRepo) GetSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) (Selection, error) {
	if sel, ok := r.selections[actorID]; ok {
		return sel, nil
	}
	return Selection{}, ErrNotFound
}

func (r *fakeSelectionRepo) SaveSelection(ctx context.Context, sel Selection, exec ...core.DBExecutor) (Selection, error) {
	r.selections[sel.ActorID] = sel
	return sel, nil
}

func (r *fakeSelectionRepo) ClearSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) error {
	delete(r.selections, actorID)
	return nil
}

type fakeSlots struct {
	slots map[string]schedule.Slot
}

func (g *fakeSlots) Get(ctx context.Context, id string) (schedule.Slot, error) {
	if slot, ok := g.slots[id]; ok {
		return slot, nil
	}
	return schedule.Slot{}, schedule.ErrNotFound
}

func TestService_PersistRestore(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSelectionRepo()
	svc := NewService(repo, &fakeSlots{slots: map[string]schedule.Slot{"slot-1": {ID: "slot-1"}}})

	if _, err := svc.Restore(ctx, "actor-1"); err != ErrNotFound {
		t.Errorf("Restore() before persist error = %v, want ErrNotFound", err)
	}

	if _, err := svc.Persist(ctx, "actor-1", "slot-1"); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}
	sel, err := svc.Restore(ctx, "actor-1")
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if sel.SlotID.String != "slot-1" {
		t.Errorf("restored slot = %q, want %q", sel.SlotID.String, "slot-1")
	}

	// empty slot id drops the selection
	if _, err = svc.Persist(ctx, "actor-1", ""); err != nil {
		t.Fatalf("Persist(empty) failed: %v", err)
	}
	if _, err = svc.Restore(ctx, "actor-1"); err != ErrNotFound {
		t.Errorf("Restore() after drop error = %v, want ErrNotFound", err)
	}
}

func TestService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("live slot", func(t *testing.T) {
		repo := newFakeSelectionRepo()
		svc := NewService(repo, &fakeSlots{slots: map[string]schedule.Slot{"slot-1": {ID: "slot-1"}}})

		if _, err := svc.Persist(ctx, "actor-1", "slot-1"); err != nil {
			t.Fatalf("Persist() failed: %v", err)
		}
		slot, ok, err := svc.Reconcile(ctx, "actor-1")
		if err != nil {
			t.Fatalf("Reconcile() failed: %v", err)
		}
		if !ok || slot.ID != "slot-1" {
			t.Errorf("Reconcile() = (%q, %v), want (slot-1, true)", slot.ID, ok)
		}
	})

	t.Run("no selection", func(t *testing.T) {
		svc := NewService(newFakeSelectionRepo(), &fakeSlots{})

		_, ok, err := svc.Reconcile(ctx, "actor-1")
		if err != nil {
			t.Fatalf("Reconcile() failed: %v", err)
		}
		if ok {
			t.Error("Reconcile() ok = true, want false")
		}
	})

	t.Run("stale selection is cleared", func(t *testing.T) {
		repo := newFakeSelectionRepo()
		// slot-1 no longer exists
		repo.selections["actor-1"] = Selection{
			ActorID:   "actor-1",
			SlotID:    null.StringFrom("slot-1"),
			UpdatedAt: time.Now().UTC(),
		}
		svc := NewService(repo, &fakeSlots{})

		_, ok, err := svc.Reconcile(ctx, "actor-1")
		if err != nil {
			t.Fatalf("Reconcile() failed: %v", err)
		}
		if ok {
			t.Error("Reconcile() ok = true, want false")
		}
		if _, stillThere := repo.selections["actor-1"]; stillThere {
			t.Error("stale selection was not cleared")
		}
	})
}
