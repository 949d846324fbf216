package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core/grade"
)

func newGrade(studentID, lessonID string, planID null.String, pct int) grade.Grade {
	now := time.Now().UTC()
	return grade.Grade{
		StudentID:  studentID,
		LessonID:   lessonID,
		MentorID:   "mentor-1",
		PlanID:     planID,
		Percentage: pct,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestGradeRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewGradeRepository(db)

	first, err := repo.UpsertGrade(ctx, newGrade("student-1", "lesson-1", null.StringFrom("plan-1"), 50))
	if err != nil {
		t.Fatalf("UpsertGrade() failed: %v", err)
	}

	// same natural key updates in place
	second, err := repo.UpsertGrade(ctx, newGrade("student-1", "lesson-1", null.StringFrom("plan-1"), 90))
	if err != nil {
		t.Fatalf("UpsertGrade() failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %q != %q", second.ID, first.ID)
	}
	if second.Percentage != 90 {
		t.Errorf("percentage = %d, want 90", second.Percentage)
	}

	// a different plan id is a different key
	third, err := repo.UpsertGrade(ctx, newGrade("student-1", "lesson-1", null.String{}, 70))
	if err != nil {
		t.Fatalf("UpsertGrade() failed: %v", err)
	}
	if third.ID == first.ID {
		t.Error("null plan id collided with a set one")
	}

	grades, err := repo.QueryGrades(ctx, &grade.QueryFilter{StudentID: "student-1"}, nil)
	if err != nil {
		t.Fatalf("QueryGrades() failed: %v", err)
	}
	if len(grades) != 2 {
		t.Errorf("grades = %d, want 2", len(grades))
	}
}

func TestGradeRepository_FindGrade(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewGradeRepository(db)

	created, err := repo.UpsertGrade(ctx, newGrade("student-1", "lesson-1", null.String{}, 80))
	if err != nil {
		t.Fatalf("UpsertGrade() failed: %v", err)
	}

	found, err := repo.FindGrade(ctx, "student-1", "lesson-1", null.String{})
	if err != nil {
		t.Fatalf("FindGrade() failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("FindGrade() ID = %q, want %q", found.ID, created.ID)
	}

	if _, err = repo.FindGrade(ctx, "student-1", "lesson-1", null.StringFrom("plan-1")); err != grade.ErrNotFound {
		t.Errorf("FindGrade() error = %v, want ErrNotFound", err)
	}
}
