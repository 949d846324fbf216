// Package inmemdb provides map-backed repositories used in tests and local
// hacking; they honor the same contracts as the SQL repositories, including
// conditional lifecycle updates and per-key grade upserts.
package inmemdb

import (
	"sync"

	"github.com/mentora/backend/core/grade"
	"github.com/mentora/backend/core/lesson"
	"github.com/mentora/backend/core/plan"
	"github.com/mentora/backend/core/schedule"
	"github.com/mentora/backend/core/selection"
)

type (
	DB struct {
		slot      *slotTable
		plan      *planTable
		grade     *gradeTable
		lesson    *lessonTable
		selection *selectionTable
	}

	slotTable struct {
		table map[string]*schedule.Slot
		mutex sync.RWMutex
	}

	planTable struct {
		table map[string]*plan.Plan
		mutex sync.RWMutex
	}

	gradeTable struct {
		table map[string]*grade.Grade
		mutex sync.RWMutex
	}

	lessonTable struct {
		table map[string]*lesson.Lesson
		mutex sync.RWMutex
	}

	selectionTable struct {
		table map[string]*selection.Selection
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		slot:      &slotTable{table: make(map[string]*schedule.Slot)},
		plan:      &planTable{table: make(map[string]*plan.Plan)},
		grade:     &gradeTable{table: make(map[string]*grade.Grade)},
		lesson:    &lessonTable{table: make(map[string]*lesson.Lesson)},
		selection: &selectionTable{table: make(map[string]*selection.Selection)},
	}
	return db, nil
}
