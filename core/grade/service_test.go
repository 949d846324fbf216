package grade

import (
	"context"
	"strconv"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
)

type fakeGradeRepo struct {
	grades []Grade
}

func (r *fakeGradeRepo) key(g Grade) string {
	return g.StudentID + "|" + g.LessonID + "|" + g.PlanID.String
}

func (r *fakeGradeRepo) UpsertGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error) {
	for i := range r.grades {
		if r.key(r.grades[i]) == r.key(g) {
			g.ID = r.grades[i].ID
			r.grades[i] = g
			return g, nil
		}
	}
	g.ID = "grade-" + strconv.Itoa(len(r.grades)+1)
	r.grades = append(r.grades, g)
	return g, nil
}

func (r *fakeGradeRepo) GetGrade(ctx context.Context, id string, exec ...core.DBExecutor) (Grade, error) {
	for _, g := range r.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return Grade{}, ErrNotFound
}

func (r *fakeGradeRepo) FindGrade(ctx context.Context, studentID, lessonID string, planID null.String, exec ...core.DBExecutor) (Grade, error) {
	for _, g := range r.grades {
		if g.StudentID == studentID && g.LessonID == lessonID && g.PlanID.String == planID.String {
			return g, nil
		}
	}
	return Grade{}, ErrNotFound
}

func (r *fakeGradeRepo) QueryGrades(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Grade, error) {
	return r.grades, nil
}

func (r *fakeGradeRepo) DeleteGrade(ctx context.Context, id string, exec ...core.DBExecutor) error {
	for i, g := range r.grades {
		if g.ID == id {
			r.grades = append(r.grades[:i], r.grades[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestService_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := &fakeGradeRepo{}
	svc := NewService(repo)

	tests := []struct {
		name       string
		percentage int
		wantLevel  string
		wantUnset  bool
		wantErr    bool
	}{
		{name: "advanced", percentage: 92, wantLevel: "A"},
		{name: "basic", percentage: 60, wantLevel: "B"},
		{name: "band boundary", percentage: 55, wantLevel: "B"},
		{name: "below scale leaves level unset", percentage: 10, wantUnset: true},
		{name: "negative rejected", percentage: -1, wantErr: true},
		{name: "above 100 rejected", percentage: 101, wantErr: true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := svc.Upsert(ctx, "mentor-1", UpsertGrade{
				StudentID:  "student-" + strconv.Itoa(i),
				LessonID:   "lesson-1",
				Percentage: tt.percentage,
			})
			if tt.wantErr {
				if _, ok := err.(*core.ValidationError); !ok {
					t.Fatalf("Upsert() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Upsert() failed: %v", err)
			}
			if tt.wantUnset {
				if g.Level.Valid {
					t.Errorf("Upsert() level = %q, want unset", g.Level.String)
				}
				return
			}
			if g.Level.String != tt.wantLevel {
				t.Errorf("Upsert() level = %q, want %q", g.Level.String, tt.wantLevel)
			}
		})
	}
}

func TestService_Upsert_overwritesExisting(t *testing.T) {
	ctx := context.Background()
	repo := &fakeGradeRepo{}
	svc := NewService(repo)

	first, err := svc.Upsert(ctx, "mentor-1", UpsertGrade{
		StudentID:  "student-1",
		LessonID:   "lesson-1",
		PlanID:     "plan-1",
		Percentage: 50,
	})
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if first.Level.String != "S" {
		t.Errorf("first level = %q, want %q", first.Level.String, "S")
	}

	second, err := svc.Upsert(ctx, "mentor-2", UpsertGrade{
		StudentID:  "student-1",
		LessonID:   "lesson-1",
		PlanID:     "plan-1",
		Percentage: 90,
	})
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	if len(repo.grades) != 1 {
		t.Fatalf("grade rows = %d, want 1", len(repo.grades))
	}
	if second.ID != first.ID {
		t.Errorf("second ID = %q, want %q", second.ID, first.ID)
	}
	if second.Level.String != "A" {
		t.Errorf("second level = %q, want %q", second.Level.String, "A")
	}
	if second.MentorID != "mentor-2" {
		t.Errorf("second mentor = %q, want %q", second.MentorID, "mentor-2")
	}
}
