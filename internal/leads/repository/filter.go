package repository

import (
	"fmt"
	"strings"
	"time"

	"crmhr_backend/internal/leads/domain"
	"crmhr_backend/platform/phone"

	"github.com/google/uuid"
)

// The list endpoints accept loosely-typed query parameters. Instead of
// conditionally mutating a query map, filtering is expressed as typed
// predicates combined with explicit AND/OR combinators; SQL is produced only
// at the very end, which keeps the decision logic testable without a
// database.

// Predicate is a single filter condition that renders itself to SQL,
// appending its arguments to args.
type Predicate interface {
	render(args *[]interface{}) string
}

type eqPred struct {
	col   string
	value interface{}
}

func (p eqPred) render(args *[]interface{}) string {
	*args = append(*args, p.value)
	return fmt.Sprintf("%s = $%d", p.col, len(*args))
}

type anyOfPred struct {
	col    string
	values []string
}

func (p anyOfPred) render(args *[]interface{}) string {
	*args = append(*args, p.values)
	return fmt.Sprintf("%s = ANY($%d)", p.col, len(*args))
}

type uuidAnyOfPred struct {
	col    string
	values []uuid.UUID
}

func (p uuidAnyOfPred) render(args *[]interface{}) string {
	*args = append(*args, p.values)
	return fmt.Sprintf("%s = ANY($%d)", p.col, len(*args))
}

// nullOrEmptyPred matches NULL or empty-string columns (unassigned leads,
// uncategorized folders).
type nullOrEmptyPred struct {
	col      string
	withEmpty bool
}

func (p nullOrEmptyPred) render(args *[]interface{}) string {
	if p.withEmpty {
		return fmt.Sprintf("(%s IS NULL OR %s = '')", p.col, p.col)
	}
	return fmt.Sprintf("%s IS NULL", p.col)
}

// textSearchPred matches the term as a case-insensitive substring of any of
// the given columns.
type textSearchPred struct {
	cols []string
	term string
}

func (p textSearchPred) render(args *[]interface{}) string {
	*args = append(*args, "%"+escapeLike(p.term)+"%")
	idx := len(*args)
	parts := make([]string, len(p.cols))
	for i, col := range p.cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, idx)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// phoneDigitsPred strips formatting characters from the stored phone and
// matches the digit-only term as a substring, so "9876543210" finds
// "+1 (987) 654-3210".
type phoneDigitsPred struct {
	digits string
}

func (p phoneDigitsPred) render(args *[]interface{}) string {
	*args = append(*args, "%"+p.digits+"%")
	return fmt.Sprintf("regexp_replace(phone, '[^0-9]', '', 'g') LIKE $%d", len(*args))
}

type rangePred struct {
	col  string
	op   string
	when time.Time
}

func (p rangePred) render(args *[]interface{}) string {
	*args = append(*args, p.when)
	return fmt.Sprintf("%s %s $%d", p.col, p.op, len(*args))
}

// orPred combines predicates with OR.
type orPred struct {
	preds []Predicate
}

func (p orPred) render(args *[]interface{}) string {
	parts := make([]string, len(p.preds))
	for i, pred := range p.preds {
		parts[i] = pred.render(args)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Or combines predicates into a single OR group.
func Or(preds ...Predicate) Predicate {
	return orPred{preds: preds}
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// ListFilter is the typed criteria set for lead list queries.
type ListFilter struct {
	Statuses   []string
	Sources    []string
	Priorities []string

	// AssigneeIDs plus Unassigned compose with OR: concrete assignees or
	// missing assignment.
	AssigneeIDs []uuid.UUID
	Unassigned  bool

	// Folders plus Uncategorized compose with OR.
	Folders       []string
	Uncategorized bool

	Search string

	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// RestrictTo pins the result set to one assignee. Set for non-admin
	// callers regardless of any other assignee filter.
	RestrictTo *uuid.UUID

	Page  int
	Limit int
}

// Normalize applies pagination defaults (1-indexed page, limit 10).
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
}

// Predicates converts the typed criteria into a predicate list combined
// with AND.
func (f ListFilter) Predicates() []Predicate {
	preds := make([]Predicate, 0, 8)

	if f.RestrictTo != nil {
		preds = append(preds, eqPred{col: "assigned_to", value: *f.RestrictTo})
	}

	if len(f.Statuses) > 0 {
		preds = append(preds, anyOfPred{col: "status", values: f.Statuses})
	}
	if len(f.Sources) > 0 {
		preds = append(preds, anyOfPred{col: "source", values: f.Sources})
	}
	if len(f.Priorities) > 0 {
		preds = append(preds, anyOfPred{col: "priority", values: f.Priorities})
	}

	if assignee := f.assigneePredicate(); assignee != nil {
		preds = append(preds, assignee)
	}
	if folder := f.folderPredicate(); folder != nil {
		preds = append(preds, folder)
	}
	if search := searchPredicate(f.Search); search != nil {
		preds = append(preds, search)
	}

	if f.CreatedFrom != nil {
		preds = append(preds, rangePred{col: "created_at", op: ">=", when: *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		preds = append(preds, rangePred{col: "created_at", op: "<=", when: *f.CreatedTo})
	}

	return preds
}

func (f ListFilter) assigneePredicate() Predicate {
	var parts []Predicate
	if len(f.AssigneeIDs) > 0 {
		parts = append(parts, uuidAnyOfPred{col: "assigned_to", values: f.AssigneeIDs})
	}
	if f.Unassigned {
		parts = append(parts, nullOrEmptyPred{col: "assigned_to"})
	}
	if len(parts) == 0 {
		return nil
	}
	return Or(parts...)
}

func (f ListFilter) folderPredicate() Predicate {
	var parts []Predicate
	if len(f.Folders) > 0 {
		parts = append(parts, anyOfPred{col: "folder", values: f.Folders})
	}
	if f.Uncategorized {
		parts = append(parts, nullOrEmptyPred{col: "folder", withEmpty: true})
	}
	if len(parts) == 0 {
		return nil
	}
	return Or(parts...)
}

// searchPredicate classifies the free-text term: a term of at least six
// digits with no letters searches phones digit-only; a term containing "@"
// or any letter searches name/email/position as a substring; anything else
// (e.g. a short numeric fragment) is a no-op.
func searchPredicate(term string) Predicate {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	if phone.IsDigitSearch(term) {
		return phoneDigitsPred{digits: phone.DigitsOnly(term)}
	}

	if strings.Contains(term, "@") || containsLetter(term) {
		return textSearchPred{cols: []string{"name", "email", "position"}, term: term}
	}

	return nil
}

func containsLetter(term string) bool {
	for _, r := range term {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// BuildWhere renders the filter into a WHERE clause and argument list.
// Returns an empty string when no predicate applies.
func (f ListFilter) BuildWhere() (string, []interface{}) {
	preds := f.Predicates()
	if len(preds) == 0 {
		return "", nil
	}

	args := make([]interface{}, 0, len(preds))
	parts := make([]string, len(preds))
	for i, pred := range preds {
		parts[i] = pred.render(&args)
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

// Assignee filter sentinels: any of these values selects unassigned leads.
var unassignedSentinels = map[string]bool{
	"":           false,
	"null":       true,
	"unassigned": true,
}

// ParseAssigneeFilter splits raw assignedTo filter values into concrete user
// IDs and an unassigned flag. Unparsable values are ignored.
func ParseAssigneeFilter(values []string) ([]uuid.UUID, bool) {
	var ids []uuid.UUID
	unassigned := false
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if unassignedSentinels[strings.ToLower(trimmed)] {
			unassigned = true
			continue
		}
		if id, err := uuid.Parse(trimmed); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, unassigned
}

// ParseFolderFilter splits raw folder filter values into concrete folder
// names and an uncategorized flag. Empty string, "null", "undefined" and the
// display label all mean uncategorized.
func ParseFolderFilter(values []string) ([]string, bool) {
	var folders []string
	uncategorized := false
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		switch {
		case trimmed == "" || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "undefined"),
			trimmed == domain.FolderUncategorized:
			uncategorized = true
		default:
			folders = append(folders, trimmed)
		}
	}
	return folders, uncategorized
}
