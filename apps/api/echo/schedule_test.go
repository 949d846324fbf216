package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/mentora/backend/core/plan"
	"github.com/mentora/backend/core/schedule"
)

func createTestSlot(t *testing.T, env *testEnv, token, date string) schedule.Slot {
	t.Helper()
	body := marshallObj(t, schedule.NewSlot{
		Date:        date,
		PeriodName:  "Morning",
		PeriodStart: "08:30",
		PeriodEnd:   "10:00",
		Classroom:   "Room 1",
		Subject:     "Mathematics",
		Level:       "Grade 5",
		MentorID:    "11111111-1111-1111-1111-111111111111",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/slots", token, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("createTestSlot() code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var slot schedule.Slot
	decodeBody(t, rec, &slot)
	return slot
}

func createTestPlan(t *testing.T, env *testEnv, token, studentID, slotID string) plan.Plan {
	t.Helper()
	body := marshallObj(t, plan.NewPlan{StudentID: studentID, SlotID: slotID})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance-plans", token, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("createTestPlan() code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var p plan.Plan
	decodeBody(t, rec, &p)
	return p
}

func Test_slotApi_create(t *testing.T) {
	env := setup(t)
	admin := adminToken(t, env)
	mentor := mentorToken(t, env)

	tests := []httpTest{
		{
			name:     "auth required",
			body:     marshallObj(t, schedule.NewSlot{}),
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "admin only",
			token:    mentor,
			body:     marshallObj(t, schedule.NewSlot{}),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "empty payload rejected",
			token:    admin,
			body:     marshallObj(t, schedule.NewSlot{}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:  "bad date rejected",
			token: admin,
			body: marshallObj(t, schedule.NewSlot{
				Date:        "07-09-2026",
				PeriodStart: "08:30",
				PeriodEnd:   "10:00",
				Classroom:   "Room 1",
				Subject:     "Mathematics",
				Level:       "Grade 5",
				MentorID:    "11111111-1111-1111-1111-111111111111",
			}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/slots", tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}

	slot := createTestSlot(t, env, admin, "2026-09-07")
	if slot.Status != schedule.StatusPlanned {
		t.Errorf("new slot status = %q, want planned", slot.Status)
	}
}

func Test_slotApi_lifecycle(t *testing.T) {
	env := setup(t)
	admin := adminToken(t, env)
	mentor := mentorToken(t, env)
	student := studentToken(t, env)

	slot := createTestSlot(t, env, admin, "2026-09-07")
	path := func(action string) string { return fmt.Sprintf("/v1/slots/%s/%s", slot.ID, action) }

	// students cannot drive the lifecycle
	req, rec := newAuthRequest(http.MethodPost, path("start"), student)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("student start code = %d, want 403", rec.Code)
	}

	// start
	req, rec = newAuthRequest(http.MethodPost, path("start"), mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var started schedule.Slot
	decodeBody(t, rec, &started)
	if started.Status != schedule.StatusInProgress || !started.StartedAt.Valid {
		t.Errorf("started slot = %+v", started)
	}

	// double start conflicts
	req, rec = newAuthRequest(http.MethodPost, path("start"), mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("double start code = %d, want 409", rec.Code)
	}

	// end
	req, rec = newAuthRequest(http.MethodPost, path("end"), mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("end code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var ended schedule.Slot
	decodeBody(t, rec, &ended)
	if ended.Status != schedule.StatusCompleted || !ended.CompletedAt.Valid {
		t.Errorf("ended slot = %+v", ended)
	}

	// cancel resets to planned
	req, rec = newAuthRequest(http.MethodPost, path("cancel"), mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var reset schedule.Slot
	decodeBody(t, rec, &reset)
	if reset.Status != schedule.StatusPlanned || reset.StartedAt.Valid || reset.CompletedAt.Valid {
		t.Errorf("reset slot = %+v", reset)
	}

	// cancel from planned conflicts
	req, rec = newAuthRequest(http.MethodPost, path("cancel"), mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("cancel from planned code = %d, want 409", rec.Code)
	}

	// unknown slot
	req, rec = newAuthRequest(http.MethodPost, "/v1/slots/nope/start", mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown slot start code = %d, want 404", rec.Code)
	}
}

func Test_slotApi_destroy(t *testing.T) {
	env := setup(t)
	admin := adminToken(t, env)
	mentor := mentorToken(t, env)

	slot := createTestSlot(t, env, admin, "2026-09-07")
	createTestPlan(t, env, mentor, "33333333-3333-3333-3333-333333333333", slot.ID)

	// refused while attendance plans reference it
	req, rec := newAuthRequest(http.MethodDelete, "/v1/slots/"+slot.ID, admin)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("delete referenced slot code = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}

	empty := createTestSlot(t, env, admin, "2026-09-08")
	req, rec = newAuthRequest(http.MethodDelete, "/v1/slots/"+empty.ID, admin)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete empty slot code = %d, want 204", rec.Code)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/slots/"+empty.ID, admin)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted slot code = %d, want 404", rec.Code)
	}
}

func Test_slotApi_query(t *testing.T) {
	env := setup(t)
	admin := adminToken(t, env)

	monday := createTestSlot(t, env, admin, "2026-09-07")
	wednesday := createTestSlot(t, env, admin, "2026-09-09")
	nextMonday := createTestSlot(t, env, admin, "2026-09-14")

	tests := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{name: "all", path: "/v1/slots", wantIDs: []string{monday.ID, wednesday.ID, nextMonday.ID}},
		{name: "by date", path: "/v1/slots?date=2026-09-09", wantIDs: []string{wednesday.ID}},
		{name: "by week", path: "/v1/slots?week_start=2026-09-07", wantIDs: []string{monday.ID, wednesday.ID}},
		{name: "by status", path: "/v1/slots?status=planned", wantIDs: []string{monday.ID, wednesday.ID, nextMonday.ID}},
		{name: "no match", path: "/v1/slots?date=2030-01-01", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, admin)
			env.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d; body: %s", rec.Code, rec.Body.String())
			}
			var slots []schedule.Slot
			decodeBody(t, rec, &slots)
			if len(slots) != len(tt.wantIDs) {
				t.Fatalf("slots = %d, want %d", len(slots), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if slots[i].ID != id {
					t.Errorf("slots[%d].ID = %q, want %q", i, slots[i].ID, id)
				}
			}
		})
	}
}

// the full classroom flow: schedule, assign, start, correct marks, read the
// percentages, end, verify the books are closed
func Test_slotApi_endToEnd(t *testing.T) {
	env := setup(t)
	admin := adminToken(t, env)
	mentor := mentorToken(t, env)

	slot := createTestSlot(t, env, admin, "2026-09-07")

	students := []string{
		"aaaaaaaa-0000-0000-0000-000000000001",
		"aaaaaaaa-0000-0000-0000-000000000002",
		"aaaaaaaa-0000-0000-0000-000000000003",
	}
	plans := make([]plan.Plan, 0, len(students))
	for _, studentID := range students {
		plans = append(plans, createTestPlan(t, env, mentor, studentID, slot.ID))
	}

	// attendance is locked before start
	body := marshallObj(t, plan.UpdateAttendance{Status: plan.StatusPresent})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance-plans/"+plans[0].ID+"/status", mentor, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("pre-start edit code = %d, want 409", rec.Code)
	}

	// start marks everyone present
	req, rec = newAuthRequest(http.MethodPost, "/v1/slots/"+slot.ID+"/start", mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start code = %d; body: %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/slots/"+slot.ID+"/attendance-plans", mentor)
	env.server.ServeHTTP(rec, req)
	var listed []plan.Plan
	decodeBody(t, rec, &listed)
	for _, p := range listed {
		if p.Status.String != plan.StatusPresent {
			t.Errorf("plan %s status after start = %q, want present", p.ID, p.Status.String)
		}
	}

	// one student never showed up
	body = marshallObj(t, plan.UpdateAttendance{Status: plan.StatusAbsent})
	req, rec = newAuthRequest(http.MethodPost, "/v1/attendance-plans/"+plans[2].ID+"/status", mentor, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark absent code = %d; body: %s", rec.Code, rec.Body.String())
	}

	// 2 of 3 present rounds to 67
	req, rec = newAuthRequest(http.MethodGet, "/v1/slots/"+slot.ID+"/attendance-stats", mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var stats attendanceStatsResponse
	decodeBody(t, rec, &stats)
	if stats.Overall.Present != 2 || stats.Overall.Absent != 1 || stats.Overall.PercentagePresent != 67 {
		t.Errorf("overall stats = %+v", stats.Overall)
	}
	if len(stats.Students) != 3 {
		t.Errorf("student stats = %d, want 3", len(stats.Students))
	}

	// end the slot; attendance is locked again
	req, rec = newAuthRequest(http.MethodPost, "/v1/slots/"+slot.ID+"/end", mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("end code = %d; body: %s", rec.Code, rec.Body.String())
	}

	body = marshallObj(t, plan.UpdateAttendance{Status: plan.StatusLeft})
	req, rec = newAuthRequest(http.MethodPost, "/v1/attendance-plans/"+plans[1].ID+"/status", mentor, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("post-end edit code = %d, want 409", rec.Code)
	}
}
