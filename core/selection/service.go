package selection

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/schedule"
)

var (
	// errors
	ErrNotFound = stderrors.New("no slot selected")
)

// Selection remembers which slot an actor was last working on, so the
// activities view survives a reload. One row per actor.
type Selection struct {
	ActorID   string      `json:"actor_id" db:"actor_id"`
	SlotID    null.String `json:"slot_id" db:"slot_id"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

type (
	Repository interface {
		GetSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) (Selection, error)
		SaveSelection(ctx context.Context, sel Selection, exec ...core.DBExecutor) (Selection, error)
		ClearSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) error
	}

	// SlotGetter is the slice of the slot lifecycle used to check a restored
	// selection still points at a live slot.
	SlotGetter interface {
		Get(ctx context.Context, id string) (schedule.Slot, error)
	}

	ServiceInterface interface {
		Persist(ctx context.Context, actorID, slotID string) (Selection, error)
		Restore(ctx context.Context, actorID string) (Selection, error)
		Clear(ctx context.Context, actorID string) error
		Reconcile(ctx context.Context, actorID string) (schedule.Slot, bool, error)
	}

	Service struct {
		repo  Repository
		slots SlotGetter
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, slots SlotGetter) *Service {
	return &Service{repo: repo, slots: slots}
}

// Persist remembers slotID as the actor's working slot; an empty slotID drops
// the selection.
func (svc *Service) Persist(ctx context.Context, actorID, slotID string) (Selection, error) {
	if slotID == "" {
		return Selection{ActorID: actorID}, svc.repo.ClearSelection(ctx, actorID)
	}
	sel := Selection{
		ActorID:   actorID,
		SlotID:    null.StringFrom(slotID),
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.SaveSelection(ctx, sel)
}

// Restore returns the last persisted selection; ErrNotFound when the actor
// never selected a slot (or cleared it).
func (svc *Service) Restore(ctx context.Context, actorID string) (Selection, error) {
	return svc.repo.GetSelection(ctx, actorID)
}

func (svc *Service) Clear(ctx context.Context, actorID string) error {
	return svc.repo.ClearSelection(ctx, actorID)
}

// Reconcile restores the actor's selection and checks it against the slot
// store. A selection pointing at a deleted slot is dropped and reported as
// ok=false instead of an error: a stale id is expected after deletions
// elsewhere and the caller should reset its view, not show a dialog.
func (svc *Service) Reconcile(ctx context.Context, actorID string) (schedule.Slot, bool, error) {
	sel, err := svc.repo.GetSelection(ctx, actorID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return schedule.Slot{}, false, nil
		}
		return schedule.Slot{}, false, err
	}
	if !sel.SlotID.Valid {
		return schedule.Slot{}, false, nil
	}

	slot, err := svc.slots.Get(ctx, sel.SlotID.String)
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			if cErr := svc.repo.ClearSelection(ctx, actorID); cErr != nil {
				return schedule.Slot{}, false, errors.Wrap(cErr, "clearing stale selection")
			}
			return schedule.Slot{}, false, nil
		}
		return schedule.Slot{}, false, err
	}
	return slot, true, nil
}
