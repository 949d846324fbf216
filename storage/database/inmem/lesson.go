package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/lesson"
)

type lessonRepository struct {
	db *DB
}

var _ lesson.Repository = (*lessonRepository)(nil)

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db}
}

// AddLesson seeds a lesson; the curriculum store is read-only through the
// service so fixtures go through here.
func (db *DB) AddLesson(l lesson.Lesson) lesson.Lesson {
	db.lesson.mutex.Lock()
	defer db.lesson.mutex.Unlock()

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
		l.UpdatedAt = now
	}
	db.lesson.table[l.ID] = &l
	return l
}

func (repo *lessonRepository) query() []lesson.Lesson {
	lessons := make([]lesson.Lesson, 0, len(repo.db.lesson.table))
	for _, l := range repo.db.lesson.table {
		lessons = append(lessons, *l)
	}
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Title != lessons[j].Title {
			return lessons[i].Title < lessons[j].Title
		}
		return lessons[i].ID < lessons[j].ID
	})
	return lessons
}

func (repo *lessonRepository) GetLesson(ctx context.Context, id string, exec ...core.DBExecutor) (lesson.Lesson, error) {
	repo.db.lesson.mutex.RLock()
	defer repo.db.lesson.mutex.RUnlock()

	if l, ok := repo.db.lesson.table[id]; ok {
		return *l, nil
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) QueryLessons(ctx context.Context, filter *lesson.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]lesson.Lesson, error) {
	repo.db.lesson.mutex.RLock()
	defer repo.db.lesson.mutex.RUnlock()

	lessons := repo.query()
	if filter == nil || filter.IsEmpty() {
		return lessons, nil
	}

	search := strings.ToLower(filter.Search)
	matches := make([]lesson.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if filter.Subject != "" && l.Subject != filter.Subject {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Title), search) &&
			!strings.Contains(strings.ToLower(l.Topic), search) {
			continue
		}
		matches = append(matches, l)
	}
	return matches, nil
}
