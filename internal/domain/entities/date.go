package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that may be absent. The wire and file formats
// use the "No Date" sentinel for the absent case, never null, so the
// type carries its own set flag instead of being a pointer.
type Date struct {
	t   time.Time
	set bool
}

// DateOf builds a set Date from a time, truncated to the calendar day
// in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), set: true}
}

// ParseDate parses "2006-01-02", an RFC 3339 timestamp, the "No Date"
// sentinel, or the empty string.
func ParseDate(s string) (Date, error) {
	if s == "" || s == NoDate {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t: t, set: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// IsSet reports whether the date holds a value rather than the sentinel.
func (d Date) IsSet() bool {
	return d.set
}

// Time returns the underlying time. Only meaningful when IsSet.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if !d.set {
		return NoDate
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Absent dates in old data files appear as null.
		if string(data) == "null" {
			*d = Date{}
			return nil
		}
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer: unset dates store as NULL.
func (d Date) Value() (driver.Value, error) {
	if !d.set {
		return nil, nil
	}
	return d.t, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	if src == nil {
		*d = Date{}
		return nil
	}
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
