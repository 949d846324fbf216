package lesson

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/mentora/backend/core"
)

// StringList is a list of short texts stored serialized in a single column.
type StringList []string

var (
	_ driver.Valuer = (StringList)(nil)
	_ sql.Scanner   = (*StringList)(nil)
)

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "serializing string list")
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("scanning string list: unsupported type %T", src)
	}
	return errors.Wrap(json.Unmarshal(data, l), "deserializing string list")
}

// Lesson is curriculum content taught during a slot. It is maintained by the
// curriculum authoring process; this core only reads it.
type Lesson struct {
	ID         string     `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	Topic      string     `json:"topic" db:"topic"`
	Content    string     `json:"content" db:"content"`
	Subject    string     `json:"subject" db:"subject"`
	Objectives StringList `json:"objectives" db:"objectives"`
	Components StringList `json:"components" db:"components"`
	Focus      StringList `json:"focus" db:"focus"`

	// free-text descriptions of what each achievement band means for this lesson
	ThresholdDesc  string `json:"threshold_desc" db:"threshold_desc"`
	BasicDesc      string `json:"basic_desc" db:"basic_desc"`
	ProficientDesc string `json:"proficient_desc" db:"proficient_desc"`
	AdvancedDesc   string `json:"advanced_desc" db:"advanced_desc"`

	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type QueryFilter struct {
	Subject string `query:"subject"`
	Search  string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Subject == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
	qf.Search = core.CleanString(qf.Search)
}
