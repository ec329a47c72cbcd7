package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	raw, err := unquoteNumber(data)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON integer or an integer string.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	raw, err := unquoteNumber(data)
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*i = flexInt(v)
	return nil
}

// flexDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp.
type flexDate struct {
	time.Time
}

func (d *flexDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date %s", data)
	}
	t, err := parseFlexibleTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func unquoteNumber(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}

// parseFlexibleTime parses "YYYY-MM-DD" as UTC midnight, or an RFC 3339
// timestamp as given.
func parseFlexibleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", s)
}

// parseUpperBound is parseFlexibleTime, except that a bare date covers the
// whole day.
func parseUpperBound(s string) (time.Time, error) {
	t, err := parseFlexibleTime(s)
	if err != nil {
		return t, err
	}
	if len(strings.TrimSpace(s)) == len(dateOnlyLayout) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func floatPtr(f *flexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func intPtr(i *flexInt) *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

func timePtr(d *flexDate) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
