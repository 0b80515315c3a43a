package mapper

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	GenderMale    = "MALE"
	GenderFemale  = "FEMALE"
	GenderMixed   = "MIXED"
	GenderUnknown = "UNKNOWN"
)

// NormalizeGender maps the upstream spellings onto MALE/FEMALE/MIXED/UNKNOWN.
func NormalizeGender(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE", "M", "MEN", "MENS", "BOYS":
		return GenderMale
	case "FEMALE", "F", "WOMEN", "WOMENS", "GIRLS":
		return GenderFemale
	case "MIXED", "COED", "X":
		return GenderMixed
	}
	return GenderUnknown
}

// NormalizeEventType upper-cases an event type.
func NormalizeEventType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// str returns a trimmed copy of p, or nil when p is nil or blank.
func str(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func val(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func boolVal(p *bool) bool {
	return p != nil && *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}

func upper(p *string) *string {
	if v := str(p); v != nil {
		return ptr(strings.ToUpper(*v))
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime reads the ISO-8601 variants the upstream emits, at the store's microsecond
// precision. Unparseable values map to nil.
func parseTime(p *string) *time.Time {
	v := val(p)
	if v == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC().Truncate(time.Microsecond)
			return &t
		}
	}
	return nil
}

// extension returns the string value of the named extension, if any.
func extension(exts []RawExtension, names ...string) *string {
	for _, name := range names {
		for _, e := range exts {
			if val(e.Name) != name || len(e.Value) == 0 {
				continue
			}
			var s string
			if err := json.Unmarshal(e.Value, &s); err == nil {
				if v := str(&s); v != nil {
					return v
				}
			}
		}
	}
	return nil
}
