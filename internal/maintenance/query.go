package maintenance

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/gearguard/internal"
)

const maxLimit = 100

// reservedKeys carry sort, pagination and projection and never reach the filter.
var reservedKeys = map[string]struct{}{"select": {}, "sort": {}, "page": {}, "limit": {}}

type filterKind int

const (
	filterEnum filterKind = iota
	filterID
)

type filterField struct {
	column  string
	kind    filterKind
	allowed []string
}

var filterFields = map[string]filterField{
	"stage":                  {column: "stage", kind: filterEnum, allowed: stageValues},
	"priority":               {column: "priority", kind: filterEnum, allowed: priorityValues},
	"type":                   {column: "type", kind: filterEnum, allowed: typeValues},
	"equipment_id":           {column: "equipment_id", kind: filterID},
	"assigned_team_id":       {column: "assigned_team_id", kind: filterID},
	"assigned_technician_id": {column: "assigned_technician_id", kind: filterID},
	"created_by_id":          {column: "created_by_id", kind: filterID},
}

var sortColumns = map[string]string{
	"id":             "id",
	"subject":        "subject",
	"stage":          "stage",
	"priority":       "priority",
	"scheduled_date": "scheduled_date",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

var selectableFields = map[string]struct{}{
	"id": {}, "subject": {}, "description": {}, "type": {}, "priority": {}, "stage": {},
	"equipment_id": {}, "equipment": {}, "assigned_team_id": {}, "assigned_team": {},
	"assigned_technician_id": {}, "assigned_technician": {}, "created_by_id": {}, "created_by": {},
	"scheduled_date": {}, "completion_date": {}, "hours_spent": {}, "created_at": {}, "updated_at": {},
}

type SortField struct {
	Column string
	Desc   bool
}

// Query is a validated listing request: an equality filter plus the
// passthrough sort, pagination and projection parameters.
type Query struct {
	Filter map[string][]interface{}
	Sort   []SortField
	Select []string
	Page   int
	Limit  int
}

// Where narrows q to a single equality condition, replacing any existing one on the same column.
func (q Query) Where(column string, value interface{}) Query {
	filter := make(map[string][]interface{}, len(q.Filter)+1)
	for k, v := range q.Filter {
		filter[k] = v
	}
	filter[column] = []interface{}{value}
	q.Filter = filter
	return q
}

// ParseQuery splits url values into filter and reserved parameters. Unknown
// filter fields and malformed values fail with a field error.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{Filter: map[string][]interface{}{}, Page: 1}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		field, ok := filterFields[key]
		if !ok {
			return q, errors.NewValidationFieldError(key, fmt.Sprintf("%s is not a filterable field", key), errors.ErrCodeValidationFailed)
		}
		parsed, err := parseFilterValues(key, field, values[key])
		if err != nil {
			return q, err
		}
		q.Filter[field.column] = parsed
	}

	if raw := values.Get("sort"); raw != "" {
		for _, part := range splitList(raw) {
			desc := strings.HasPrefix(part, "-")
			name := strings.TrimPrefix(part, "-")
			column, ok := sortColumns[name]
			if !ok {
				return q, errors.NewValidationFieldError("sort", fmt.Sprintf("cannot sort by %s", name), errors.ErrCodeValidationFailed)
			}
			q.Sort = append(q.Sort, SortField{Column: column, Desc: desc})
		}
	}

	if raw := values.Get("select"); raw != "" {
		for _, name := range splitList(raw) {
			if _, ok := selectableFields[name]; !ok {
				return q, errors.NewValidationFieldError("select", fmt.Sprintf("cannot select %s", name), errors.ErrCodeValidationFailed)
			}
			q.Select = append(q.Select, name)
		}
	}

	var err error
	if q.Page, err = parsePositive(values.Get("page"), "page", 1, 0); err != nil {
		return q, err
	}
	if q.Limit, err = parsePositive(values.Get("limit"), "limit", 0, maxLimit); err != nil {
		return q, err
	}
	return q, nil
}

func parseFilterValues(key string, field filterField, raw []string) ([]interface{}, error) {
	var out []interface{}
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			switch field.kind {
			case filterID:
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil || id <= 0 {
					return nil, errors.NewValidationFieldError(key, fmt.Sprintf("%s must be a positive integer", key), errors.ErrCodeValidationFailed)
				}
				out = append(out, id)
			case filterEnum:
				if !contains(field.allowed, part) {
					return nil, errors.NewValidationFieldError(key,
						fmt.Sprintf("%s must be one of: %s", key, strings.Join(field.allowed, ", ")),
						errors.ErrCodeInvalidEnum)
				}
				out = append(out, part)
			}
		}
	}
	return out, nil
}

func parsePositive(raw, field string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || (max > 0 && n > max) {
		msg := fmt.Sprintf("%s must be a positive integer", field)
		if max > 0 {
			msg = fmt.Sprintf("%s must be between 1 and %d", field, max)
		}
		return 0, errors.NewValidationFieldError(field, msg, errors.ErrCodeOutOfRange)
	}
	return n, nil
}

func splitList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Predicate renders the filter as a SQL condition with ? placeholders.
// It returns an empty string when nothing is filtered.
func (q Query) Predicate() (string, []interface{}, error) {
	if len(q.Filter) == 0 {
		return "", nil, nil
	}
	eq := sq.Eq{}
	for column, values := range q.Filter {
		if len(values) == 1 {
			eq[column] = values[0]
		} else {
			eq[column] = values
		}
	}
	return eq.ToSql()
}

// Offset is zero when no limit was requested.
func (q Query) Offset() int {
	if q.Limit == 0 || q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Project keeps only the selected fields of each view. id is always kept.
func Project(views []*RequestView, fields []string) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(views))
	for _, v := range views {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var full map[string]interface{}
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, err
		}
		picked := map[string]interface{}{"id": full["id"]}
		for _, f := range fields {
			picked[f] = full[f]
		}
		out = append(out, picked)
	}
	return out, nil
}
