package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mentora/backend/core/lesson"
	"github.com/mentora/backend/core/schedule"
	sqlxrepos "github.com/mentora/backend/storage/database/sqlx"
)

var seedPeriods = []struct {
	name, start, end string
}{
	{"Morning", "08:30", "10:00"},
	{"Midday", "10:30", "12:00"},
	{"Afternoon", "13:00", "14:30"},
}

// seed loads a couple of demo lessons and a week of planned slots so a fresh
// environment has something to click on.
func (cli *commandLine) seed(weekStart string) error {
	ctx := context.Background()

	monday, err := resolveMonday(weekStart)
	if err != nil {
		return err
	}

	lessonRepo := sqlxrepos.NewLessonRepository(cli.db)
	slotSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(cli.db), nil)

	now := time.Now().UTC()
	lessons := []lesson.Lesson{
		{
			Title:      "Fractions and Decimals",
			Topic:      "Numbers",
			Subject:    "Mathematics",
			Objectives: lesson.StringList{"convert fractions to decimals", "order decimal numbers"},
			Components: lesson.StringList{"warm-up", "guided practice", "exit ticket"},
			Focus:      lesson.StringList{"number sense"},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			Title:      "Reading Comprehension: Fables",
			Topic:      "Literature",
			Subject:    "English",
			Objectives: lesson.StringList{"identify the moral of a fable"},
			Components: lesson.StringList{"shared reading", "discussion"},
			Focus:      lesson.StringList{"inference"},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
	for _, l := range lessons {
		if _, err = lessonRepo.CreateLesson(ctx, l); err != nil {
			return errors.Wrap(err, "seeding lessons")
		}
	}
	logger.Printf("seeded %d lessons", len(lessons))

	mentorID := "11111111-1111-1111-1111-111111111111"
	var count int
	for day := 0; day < 5; day++ {
		date := monday.AddDate(0, 0, day).Format("2006-01-02")
		for i, period := range seedPeriods {
			_, err = slotSvc.Create(ctx, schedule.NewSlot{
				Date:        date,
				PeriodName:  period.name,
				PeriodStart: period.start,
				PeriodEnd:   period.end,
				Classroom:   fmt.Sprintf("Room %d", i+1),
				Subject:     lessons[day%len(lessons)].Subject,
				Level:       "Grade 5",
				MentorID:    mentorID,
			})
			if err != nil {
				return errors.Wrap(err, "seeding slots")
			}
			count++
		}
	}
	logger.Printf("seeded %d slots for week of %s", count, monday.Format("2006-01-02"))
	return nil
}

func resolveMonday(weekStart string) (time.Time, error) {
	if weekStart != "" {
		monday, err := time.Parse("2006-01-02", weekStart)
		return monday, errors.Wrap(err, "parsing week start")
	}
	monday := time.Now().UTC()
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}
	return monday, nil
}
