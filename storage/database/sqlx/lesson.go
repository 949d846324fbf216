package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/lesson"
)

const lessonColumns = `id, title, topic, content, subject, objectives, components, focus,
	threshold_desc, basic_desc, proficient_desc, advanced_desc, created_at, updated_at`

type lessonRepository struct {
	exec core.DBExecutor
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(exec core.DBExecutor) *lessonRepository {
	return &lessonRepository{exec: exec}
}

func (repo lessonRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// CreateLesson is not part of the core repository contract; lessons are
// read-only to the API. The admin seeder uses it directly.
func (repo lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson, exec ...core.DBExecutor) (lesson.Lesson, error) {
	l.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO lesson
			(id, title, topic, content, subject, objectives, components, focus,
			 threshold_desc, basic_desc, proficient_desc, advanced_desc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		l.ID, l.Title, l.Topic, l.Content, l.Subject, l.Objectives, l.Components, l.Focus,
		l.ThresholdDesc, l.BasicDesc, l.ProficientDesc, l.AdvancedDesc, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return l, nil
}

func (repo lessonRepository) GetLesson(ctx context.Context, id string, exec ...core.DBExecutor) (lesson.Lesson, error) {
	var l lesson.Lesson
	err := repo.getExec(exec).GetContext(ctx, &l,
		`SELECT `+lessonColumns+` FROM lesson WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return lesson.Lesson{}, lesson.ErrNotFound
		}
		return lesson.Lesson{}, errors.Wrap(err, "getting lesson")
	}
	return l, nil
}

func (repo lessonRepository) QueryLessons(ctx context.Context, filter *lesson.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]lesson.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lesson`
	var clauses []string
	var args []interface{}

	if filter != nil {
		if filter.Subject != "" {
			args = append(args, filter.Subject)
			clauses = append(clauses, "subject = $"+itoa(len(args)))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			n := itoa(len(args))
			clauses = append(clauses, "(title ILIKE $"+n+" OR topic ILIKE $"+n+")")
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(ordering, "title ASC, id ASC")

	lessons := []lesson.Lesson{}
	if err := repo.getExec(exec).SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	return lessons, nil
}
