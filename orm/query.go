package orm

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	column   string
	operator string
	value    any
}

// QuerySet is an immutable, chainable query over one model's table. Each
// chaining call returns a clone, so partially built queries can be shared.
type QuerySet struct {
	m   *Manager
	mi  *model
	typ reflect.Type
	err error

	conditions []condition
	orderBy    []string
	limit      int
	offset     int
}

// Query starts a query set for sample's type.
func (m *Manager) Query(sample any) *QuerySet {
	typ := baseType(sample)
	mi, err := modelOf(typ)
	return &QuerySet{m: m, mi: mi, typ: typ, err: err}
}

func (q *QuerySet) clone() *QuerySet {
	cl := *q
	cl.conditions = append([]condition(nil), q.conditions...)
	cl.orderBy = append([]string(nil), q.orderBy...)
	return &cl
}

// Filter adds an equality condition on a column.
func (q *QuerySet) Filter(column string, value any) *QuerySet {
	cl := q.clone()
	cl.conditions = append(cl.conditions, condition{column: column, operator: "=", value: value})
	return cl
}

// Exclude adds an inequality condition on a column.
func (q *QuerySet) Exclude(column string, value any) *QuerySet {
	cl := q.clone()
	cl.conditions = append(cl.conditions, condition{column: column, operator: "!=", value: value})
	return cl
}

// OrderBy sets the ordering columns; a "-" prefix means descending.
func (q *QuerySet) OrderBy(columns ...string) *QuerySet {
	cl := q.clone()
	cl.orderBy = columns
	return cl
}

// Limit caps the number of returned rows.
func (q *QuerySet) Limit(n int) *QuerySet {
	cl := q.clone()
	cl.limit = n
	return cl
}

// Offset skips the first n rows.
func (q *QuerySet) Offset(n int) *QuerySet {
	cl := q.clone()
	cl.offset = n
	return cl
}

// All runs the query and appends every row to dest, which must be a
// pointer to a slice of the model type.
func (q *QuerySet) All(dest any) error {
	if q.err != nil {
		return q.err
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("orm: All wants a slice pointer, got %T", dest)
	}
	elemType := dv.Elem().Type().Elem()
	if elemType != q.typ {
		return fmt.Errorf("orm: All wants []%s, got %T", q.typ, dest)
	}

	query, args := q.buildSelect()
	rows, err := q.m.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", q.mi.table, err)
	}
	defer rows.Close()

	slice := dv.Elem()
	for rows.Next() {
		item := reflect.New(q.typ).Elem()
		targets := make([]any, len(q.mi.fields))
		for i := range q.mi.fields {
			targets[i] = item.Field(q.mi.fields[i].index).Addr().Interface()
		}
		if err := rows.Scan(targets...); err != nil {
			return fmt.Errorf("scan %s: %w", q.mi.table, err)
		}
		slice = reflect.Append(slice, item)
	}
	dv.Elem().Set(slice)
	return rows.Err()
}

// First stores the first matching row in dest. It reports false without an
// error when nothing matched.
func (q *QuerySet) First(dest any) (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Type() != q.typ {
		return false, fmt.Errorf("orm: First wants *%s, got %T", q.typ, dest)
	}

	sliceValue := reflect.New(reflect.SliceOf(q.typ))
	if err := q.Limit(1).All(sliceValue.Interface()); err != nil {
		return false, err
	}
	if sliceValue.Elem().Len() == 0 {
		return false, nil
	}
	dv.Elem().Set(sliceValue.Elem().Index(0))
	return true, nil
}

// Get stores the single matching row in dest. It fails with
// ErrDoesNotExist on zero matches and ErrMultipleObjects on more than one.
func (q *QuerySet) Get(dest any) error {
	if q.err != nil {
		return q.err
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Type() != q.typ {
		return fmt.Errorf("orm: Get wants *%s, got %T", q.typ, dest)
	}

	sliceValue := reflect.New(reflect.SliceOf(q.typ))
	if err := q.All(sliceValue.Interface()); err != nil {
		return err
	}
	switch n := sliceValue.Elem().Len(); {
	case n == 0:
		return ErrDoesNotExist
	case n > 1:
		return ErrMultipleObjects
	}
	dv.Elem().Set(sliceValue.Elem().Index(0))
	return nil
}

// Count returns the number of matching rows.
func (q *QuerySet) Count() (int64, error) {
	if q.err != nil {
		return 0, q.err
	}

	query := "SELECT COUNT(*) FROM " + q.mi.table
	where, args := q.buildWhere()
	if where != "" {
		query += " WHERE " + where
	}

	var n int64
	if err := q.m.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.mi.table, err)
	}
	return n, nil
}

// Delete removes every matching row and reports how many were deleted.
func (q *QuerySet) Delete() (int64, error) {
	if q.err != nil {
		return 0, q.err
	}

	query := "DELETE FROM " + q.mi.table
	where, args := q.buildWhere()
	if where != "" {
		query += " WHERE " + where
	}

	res, err := q.m.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", q.mi.table, err)
	}
	return res.RowsAffected()
}

func (q *QuerySet) buildSelect() (string, []any) {
	columns := make([]string, len(q.mi.fields))
	for i := range q.mi.fields {
		columns[i] = q.mi.fields[i].column
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), q.mi.table)
	where, args := q.buildWhere()
	if where != "" {
		query += " WHERE " + where
	}

	if len(q.orderBy) > 0 {
		parts := make([]string, len(q.orderBy))
		for i, col := range q.orderBy {
			if strings.HasPrefix(col, "-") {
				parts[i] = col[1:] + " DESC"
			} else {
				parts[i] = col + " ASC"
			}
		}
		query += " ORDER BY " + strings.Join(parts, ", ")
	}

	// SQLite accepts OFFSET only after a LIMIT clause; -1 means unlimited.
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	} else if q.offset > 0 {
		query += " LIMIT -1"
	}
	if q.offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", q.offset)
	}
	return query, args
}

func (q *QuerySet) buildWhere() (string, []any) {
	if len(q.conditions) == 0 {
		return "", nil
	}

	parts := make([]string, len(q.conditions))
	args := make([]any, len(q.conditions))
	for i, c := range q.conditions {
		parts[i] = c.column + " " + c.operator + " ?"
		args[i] = c.value
	}
	return strings.Join(parts, " AND "), args
}
