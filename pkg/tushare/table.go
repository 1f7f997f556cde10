package tushare

import (
	"etfreplica/internal/domain"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is the columnar payload every endpoint returns.
type Table struct {
	Name   string   `json:"-"`
	Fields []string `json:"fields"`
	Items  [][]any  `json:"items"`
}

// Row reads one item by column name.
type Row struct {
	table   string
	columns map[string]int
	values  []any
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Items)
}

func (t *Table) HasField(field string) bool {
	if t == nil {
		return false
	}
	for _, f := range t.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Require fails with MissingFieldError on the first absent column. Empty
// tables pass, since the provider omits nothing when there is nothing to
// describe.
func (t *Table) Require(fields ...string) error {
	if t.Len() == 0 {
		return nil
	}
	for _, f := range fields {
		if !t.HasField(f) {
			return &domain.MissingFieldError{Field: f, Table: t.Name}
		}
	}
	return nil
}

func (t *Table) Rows() []Row {
	if t == nil {
		return []Row{}
	}
	columns := make(map[string]int, len(t.Fields))
	for i, f := range t.Fields {
		columns[f] = i
	}
	rows := make([]Row, 0, len(t.Items))
	for _, item := range t.Items {
		rows = append(rows, Row{
			table:   t.Name,
			columns: columns,
			values:  item,
		})
	}
	return rows
}

func (r Row) value(field string) (any, error) {
	i, ok := r.columns[field]
	if !ok {
		return nil, &domain.MissingFieldError{Field: field, Table: r.table}
	}
	if i >= len(r.values) {
		return nil, nil
	}
	return r.values[i], nil
}

// String returns "" for null cells.
func (r Row) String(field string) (string, error) {
	v, err := r.value(field)
	if err != nil {
		return "", err
	}
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// Float returns nil for null, blank or non-numeric cells.
func (r Row) Float(field string) (*float64, error) {
	v, err := r.value(field)
	if err != nil {
		return nil, err
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, nil
		}
		f = parsed
	default:
		return nil, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, nil
	}
	return &f, nil
}

func (r Row) Date(field string) (domain.Date, error) {
	s, err := r.String(field)
	if err != nil {
		return "", err
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", r.table, field, err)
	}
	return d, nil
}
