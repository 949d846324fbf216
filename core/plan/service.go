package plan

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/schedule"
)

var (
	// errors
	ErrNotFound        = errors.New("attendance plan not found")
	ErrPlanExists      = errors.New("an attendance plan already exists for this student and slot")
	ErrSlotNotEditable = errors.New("attendance can only be edited while the slot is in progress")
)

type (
	Repository interface {
		// CreatePlan fails with ErrPlanExists when a plan already exists for the
		// same (student, slot) pair.
		CreatePlan(ctx context.Context, p Plan, exec ...core.DBExecutor) (Plan, error)
		GetPlan(ctx context.Context, id string, exec ...core.DBExecutor) (Plan, error)
		// QueryPlans applies AND operation on available QueryFilter fields.
		QueryPlans(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Plan, error)
		UpdatePlanAttendance(ctx context.Context, id string, status null.String, exec ...core.DBExecutor) (Plan, error)
		DeletePlan(ctx context.Context, id string, exec ...core.DBExecutor) error
		// MarkSlotPlansPresent sets every plan of the slot present and returns how
		// many rows changed. Used by the slot lifecycle on Start.
		MarkSlotPlansPresent(ctx context.Context, slotID string, exec ...core.DBExecutor) (int, error)
	}

	// SlotGetter is the slice of the slot lifecycle this store needs to gate
	// attendance edits on the owning slot's status.
	SlotGetter interface {
		Get(ctx context.Context, id string) (schedule.Slot, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, np NewPlan) (Plan, error)
		Get(ctx context.Context, id string) (Plan, error)
		ListForSlot(ctx context.Context, slotID string) ([]Plan, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Plan, error)
		UpdateAttendance(ctx context.Context, id string, ua UpdateAttendance) (Plan, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		slots SlotGetter
	}
)

var (
	_ ServiceInterface         = (*Service)(nil)
	_ schedule.AttendanceMarker = (*Service)(nil)
)

func NewService(repo Repository, slots SlotGetter) *Service {
	return &Service{repo: repo, slots: slots}
}

func (svc *Service) Create(ctx context.Context, np NewPlan) (Plan, error) {
	// the owning slot must exist; a missing one surfaces as schedule.ErrNotFound
	if _, err := svc.slots.Get(ctx, np.SlotID); err != nil {
		return Plan{}, err
	}

	now := time.Now().UTC()
	p := Plan{
		StudentID: np.StudentID,
		SlotID:    np.SlotID,
		LessonID:  null.NewString(np.LessonID, np.LessonID != ""),
		Notes:     np.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreatePlan(ctx, p)
}

func (svc *Service) Get(ctx context.Context, id string) (Plan, error) {
	return svc.repo.GetPlan(ctx, id)
}

func (svc *Service) ListForSlot(ctx context.Context, slotID string) ([]Plan, error) {
	return svc.repo.QueryPlans(ctx, &QueryFilter{SlotID: slotID}, nil)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Plan, error) {
	return svc.repo.QueryPlans(ctx, filter, ordering)
}

// UpdateAttendance records (or clears) a student's attendance. The owning slot
// must be in_progress: the UI disables the action outside that window but the
// store enforces it independently.
func (svc *Service) UpdateAttendance(ctx context.Context, id string, ua UpdateAttendance) (Plan, error) {
	p, err := svc.repo.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	slot, err := svc.slots.Get(ctx, p.SlotID)
	if err != nil {
		return Plan{}, err
	}
	if !slot.Editable() {
		return Plan{}, ErrSlotNotEditable
	}
	return svc.repo.UpdatePlanAttendance(ctx, id, null.NewString(ua.Status, ua.Status != ""))
}

// Delete removes a plan regardless of the owning slot's status; it exists for
// administrative corrections.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePlan(ctx, id)
}

// MarkSlotPlansPresent implements schedule.AttendanceMarker: when a slot is
// started, everyone already assigned to it is assumed present until a mentor
// marks otherwise.
func (svc *Service) MarkSlotPlansPresent(ctx context.Context, slotID string) (int, error) {
	return svc.repo.MarkSlotPlansPresent(ctx, slotID)
}
