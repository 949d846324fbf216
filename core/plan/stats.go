package plan

import "math"

// Stats summarizes attendance over a set of plans. Every plan lands in exactly
// one bucket; unmarked plans count toward Total but none of the four named
// buckets.
type Stats struct {
	Present           int `json:"present"`
	Absent            int `json:"absent"`
	Left              int `json:"left"`
	Excused           int `json:"excused"`
	Unset             int `json:"unset"`
	Total             int `json:"total"`
	PercentagePresent int `json:"percentage_present"`
}

// Summarize derives attendance counts and the present-percentage for a set of
// plans. An empty set yields 0%, never a division by zero.
func Summarize(plans []Plan) Stats {
	var stats Stats
	for i := range plans {
		stats.Total++
		if !plans[i].Status.Valid {
			stats.Unset++
			continue
		}
		switch plans[i].Status.String {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLeft:
			stats.Left++
		case StatusExcused:
			stats.Excused++
		default:
			stats.Unset++
		}
	}
	if stats.Total > 0 {
		stats.PercentagePresent = int(math.Round(float64(stats.Present) / float64(stats.Total) * 100))
	}
	return stats
}

// StudentStats pairs a student with their attendance summary.
type StudentStats struct {
	StudentID string `json:"student_id"`
	Stats
}

// SummarizeByStudent groups plans per student and summarizes each group in one
// pass, so a whole slot (or subject) can be reported with a single query.
func SummarizeByStudent(plans []Plan) []StudentStats {
	byStudent := make(map[string][]Plan)
	order := make([]string, 0)
	for _, p := range plans {
		if _, ok := byStudent[p.StudentID]; !ok {
			order = append(order, p.StudentID)
		}
		byStudent[p.StudentID] = append(byStudent[p.StudentID], p)
	}

	stats := make([]StudentStats, 0, len(order))
	for _, id := range order {
		stats = append(stats, StudentStats{StudentID: id, Stats: Summarize(byStudent[id])})
	}
	return stats
}
