package echoapi

import (
	"net/http"
	"testing"

	"github.com/mentora/backend/core/grade"
)

func Test_gradeApi_upsert(t *testing.T) {
	env := setup(t)
	mentor := mentorToken(t, env)
	student := studentToken(t, env)

	studentID := "aaaaaaaa-0000-0000-0000-000000000001"
	lessonID := "bbbbbbbb-0000-0000-0000-000000000001"

	tests := []httpTest{
		{
			name:     "auth required",
			body:     marshallObj(t, grade.UpsertGrade{StudentID: studentID, LessonID: lessonID, Percentage: 80}),
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "mentor only",
			token:    student,
			body:     marshallObj(t, grade.UpsertGrade{StudentID: studentID, LessonID: lessonID, Percentage: 80}),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "missing fields rejected",
			token:    mentor,
			body:     marshallObj(t, grade.UpsertGrade{Percentage: 80}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "percentage above 100 rejected",
			token:    mentor,
			body:     marshallObj(t, grade.UpsertGrade{StudentID: studentID, LessonID: lessonID, Percentage: 101}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "recorded",
			token:    mentor,
			body:     marshallObj(t, grade.UpsertGrade{StudentID: studentID, LessonID: lessonID, Percentage: 80}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/grades", tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}

	// re-submitting replaces the grade instead of adding a row
	body := marshallObj(t, grade.UpsertGrade{StudentID: studentID, LessonID: lessonID, Percentage: 45})
	req, rec := newAuthRequest(http.MethodPut, "/v1/grades", mentor, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-upsert code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var updated grade.Grade
	decodeBody(t, rec, &updated)
	if updated.Percentage != 45 || updated.Level.String != "S" {
		t.Errorf("updated grade = %+v, want 45%% level S", updated)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/grades?student="+studentID, mentor)
	env.server.ServeHTTP(rec, req)
	var grades []grade.Grade
	decodeBody(t, rec, &grades)
	if len(grades) != 1 {
		t.Errorf("grades = %d, want 1", len(grades))
	}
}

func Test_gradeApi_destroy(t *testing.T) {
	env := setup(t)
	mentor := mentorToken(t, env)

	body := marshallObj(t, grade.UpsertGrade{
		StudentID:  "aaaaaaaa-0000-0000-0000-000000000001",
		LessonID:   "bbbbbbbb-0000-0000-0000-000000000001",
		Percentage: 80,
	})
	req, rec := newAuthRequest(http.MethodPut, "/v1/grades", mentor, body)
	env.server.ServeHTTP(rec, req)
	var g grade.Grade
	decodeBody(t, rec, &g)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/grades/"+g.ID, mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete code = %d, want 204", rec.Code)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/grades/"+g.ID, mentor)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted code = %d, want 404", rec.Code)
	}
}

func Test_gradeApi_achievementLevels(t *testing.T) {
	env := setup(t)
	mentor := mentorToken(t, env)

	req, rec := newAuthRequest(http.MethodGet, "/v1/achievement-levels", mentor)
	env.server.ServeHTTP(rec, req)
	tt := httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, grade.Levels())}
	checkCodeAndData(t, tt, rec)

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantLevel string
	}{
		{name: "threshold", path: "/v1/achievement-levels/by-percentage?percentage=40", wantCode: http.StatusOK, wantLevel: "S"},
		{name: "advanced", path: "/v1/achievement-levels/by-percentage?percentage=100", wantCode: http.StatusOK, wantLevel: "A"},
		{name: "below scale", path: "/v1/achievement-levels/by-percentage?percentage=10", wantCode: http.StatusNotFound},
		{name: "not a number", path: "/v1/achievement-levels/by-percentage?percentage=lol", wantCode: http.StatusBadRequest},
		{name: "out of range", path: "/v1/achievement-levels/by-percentage?percentage=200", wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tc.path, mentor)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d; body: %s", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantLevel != "" {
				var resp levelResponse
				decodeBody(t, rec, &resp)
				if resp.Code != tc.wantLevel {
					t.Errorf("level code = %q, want %q", resp.Code, tc.wantLevel)
				}
				if resp.DefaultPercentage != resp.Max {
					t.Errorf("default percentage = %d, want band max %d", resp.DefaultPercentage, resp.Max)
				}
			}
		})
	}
}
