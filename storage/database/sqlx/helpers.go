// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"strconv"

	"github.com/mentora/backend/core"
)

func itoa(n int) string { return strconv.Itoa(n) }

// orderBy renders an ORDER BY clause from the given ordering, falling back to
// def. Fields come from the handlers' whitelists, never from raw user input.
func orderBy(ordering []core.DBOrdering, def string) string {
	if len(ordering) == 0 {
		if def == "" {
			return ""
		}
		return " ORDER BY " + def
	}
	clause := " ORDER BY "
	for i, ord := range ordering {
		if i > 0 {
			clause += ", "
		}
		clause += ord.String()
	}
	return clause
}
