package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/mentora/backend/core"
)

var (
	// errors
	ErrNotFound          = errors.New("slot not found")
	ErrInvalidTransition = errors.New("invalid slot status transition")
	ErrSlotReferenced    = errors.New("slot is still referenced by attendance plans")
)

type (
	Repository interface {
		CreateSlot(ctx context.Context, slot Slot, exec ...core.DBExecutor) (Slot, error)
		GetSlot(ctx context.Context, id string, exec ...core.DBExecutor) (Slot, error)
		// QuerySlots applies AND operation on available QueryFilter fields.
		QuerySlots(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Slot, error)
		// StartSlot conditionally moves a planned slot to in_progress and stamps
		// started_at. The update is keyed on the expected current status so that
		// exactly one concurrent caller wins; the losers get ErrInvalidTransition.
		StartSlot(ctx context.Context, id string, startedAt time.Time, exec ...core.DBExecutor) (Slot, error)
		// EndSlot conditionally moves an in_progress slot to completed and stamps
		// completed_at, leaving started_at untouched.
		EndSlot(ctx context.Context, id string, completedAt time.Time, exec ...core.DBExecutor) (Slot, error)
		// ResetSlot conditionally moves an in_progress or completed slot back to
		// planned and clears both timestamps.
		ResetSlot(ctx context.Context, id string, exec ...core.DBExecutor) (Slot, error)
		// DeleteSlot removes a slot; ErrSlotReferenced while attendance plans
		// still point at it.
		DeleteSlot(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	// AttendanceMarker is the slice of the attendance plan store the lifecycle
	// needs: starting a slot marks everyone assigned to it present.
	AttendanceMarker interface {
		MarkSlotPlansPresent(ctx context.Context, slotID string) (int, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewSlot) (Slot, error)
		Get(ctx context.Context, id string) (Slot, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Slot, error)
		Start(ctx context.Context, id, actorID string) (Slot, error)
		End(ctx context.Context, id, actorID string) (Slot, error)
		Cancel(ctx context.Context, id, actorID string) (Slot, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		marker AttendanceMarker
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, marker AttendanceMarker) *Service {
	return &Service{repo: repo, marker: marker}
}

// SetAttendanceMarker breaks the construction cycle with the plan service,
// which itself needs this service to gate attendance edits.
func (svc *Service) SetAttendanceMarker(marker AttendanceMarker) {
	svc.marker = marker
}

func (svc *Service) Create(ctx context.Context, ns NewSlot) (Slot, error) {
	now := time.Now().UTC()
	slot := Slot{
		Date:        ns.Date,
		PeriodName:  ns.PeriodName,
		PeriodStart: ns.PeriodStart,
		PeriodEnd:   ns.PeriodEnd,
		Classroom:   ns.Classroom,
		Subject:     ns.Subject,
		Level:       ns.Level,
		MentorID:    ns.MentorID,
		Status:      StatusPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateSlot(ctx, slot)
}

func (svc *Service) Get(ctx context.Context, id string) (Slot, error) {
	return svc.repo.GetSlot(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Slot, error) {
	return svc.repo.QuerySlots(ctx, filter, ordering)
}

// Start moves a planned slot to in_progress and marks every attendance plan
// already attached to it present; late arrivals are then marked down by hand.
// A second Start on the same slot fails with ErrInvalidTransition and leaves
// the original started_at untouched.
func (svc *Service) Start(ctx context.Context, id, actorID string) (Slot, error) {
	slot, err := svc.repo.StartSlot(ctx, id, time.Now().UTC())
	if err != nil {
		return Slot{}, err
	}
	if svc.marker != nil {
		if _, err = svc.marker.MarkSlotPlansPresent(ctx, slot.ID); err != nil {
			return Slot{}, err
		}
	}
	return slot, nil
}

// End moves an in_progress slot to completed.
func (svc *Service) End(ctx context.Context, id, actorID string) (Slot, error) {
	return svc.repo.EndSlot(ctx, id, time.Now().UTC())
}

// Cancel resets an in_progress or completed slot back to planned and clears
// both timestamps. A never-started slot has nothing to cancel, so planned is
// not a valid source state.
func (svc *Service) Cancel(ctx context.Context, id, actorID string) (Slot, error) {
	return svc.repo.ResetSlot(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSlot(ctx, id)
}
