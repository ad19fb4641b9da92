package importer

import "strings"

// Row is one source row keyed by normalized header name.
type Row map[string]string

// Header names recognized after normalization.
const (
	fieldName       = "name"
	fieldEmail      = "email"
	fieldPhone      = "phone"
	fieldPosition   = "position"
	fieldAssignedTo = "assignedto"
)

// NormalizeRow lower-cases and trims every key so that "Email ", "EMAIL" and
// "email" address the same cell. Values are left untouched here; trimming of
// values happens where each field is consumed.
func NormalizeRow(raw map[string]string) Row {
	out := make(Row, len(raw))
	for key, value := range raw {
		out[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return out
}

func (r Row) get(field string) string {
	return strings.TrimSpace(r[field])
}

// Name returns the trimmed lead name.
func (r Row) Name() string { return r.get(fieldName) }

// Email returns the lower-cased, trimmed email.
func (r Row) Email() string { return strings.ToLower(r.get(fieldEmail)) }

// Phone returns the trimmed phone string.
func (r Row) Phone() string { return r.get(fieldPhone) }

// Position returns the trimmed optional position.
func (r Row) Position() string { return r.get(fieldPosition) }

// AssignedTo returns the trimmed optional assignee name.
func (r Row) AssignedTo() string { return r.get(fieldAssignedTo) }

// MissingRequiredField reports the first required field that is empty after
// trimming, in the fixed order name, email, phone. Empty string means the row
// passes.
func (r Row) MissingRequiredField() string {
	for _, field := range []string{fieldName, fieldEmail, fieldPhone} {
		if r.get(field) == "" {
			return field
		}
	}
	return ""
}
