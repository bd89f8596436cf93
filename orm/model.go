package orm

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// field describes one mapped struct field.
type field struct {
	column     string
	index      int
	sqlType    string
	primaryKey bool
	auto       bool
	notNull    bool
	unique     bool
	hasDefault bool
	defValue   string
}

// model is the derived schema of a struct type.
type model struct {
	table  string
	fields []field
	pk     *field
}

var modelCache sync.Map // reflect.Type -> *model

var timeType = reflect.TypeOf(time.Time{})

// modelOf derives (and caches) the schema for a struct type. Unexported
// fields and fields tagged orm:"-" are skipped.
func modelOf(t reflect.Type) (*model, error) {
	if cached, ok := modelCache.Load(t); ok {
		return cached.(*model), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("orm: %s is not a struct", t)
	}

	mi := &model{table: snakeCase(t.Name())}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("orm")
		if tag == "-" {
			continue
		}

		f := field{column: snakeCase(sf.Name), index: i}
		maxLength := 255
		for _, opt := range strings.Split(tag, ",") {
			key, value, _ := strings.Cut(opt, "=")
			switch strings.TrimSpace(key) {
			case "primary_key":
				f.primaryKey = true
			case "auto":
				f.auto = true
			case "notnull":
				f.notNull = true
			case "unique":
				f.unique = true
			case "column":
				f.column = value
			case "max_length":
				if n, err := strconv.Atoi(value); err == nil {
					maxLength = n
				}
			case "default":
				f.hasDefault = true
				f.defValue = value
			}
		}

		sqlType, err := sqlTypeFor(sf.Type, maxLength)
		if err != nil {
			return nil, fmt.Errorf("orm: field %s.%s: %w", t.Name(), sf.Name, err)
		}
		f.sqlType = sqlType

		mi.fields = append(mi.fields, f)
	}

	if len(mi.fields) == 0 {
		return nil, fmt.Errorf("orm: %s has no mapped fields", t)
	}
	for i := range mi.fields {
		if mi.fields[i].primaryKey {
			mi.pk = &mi.fields[i]
			break
		}
	}

	modelCache.Store(t, mi)
	return mi, nil
}

func sqlTypeFor(t reflect.Type, maxLength int) (string, error) {
	if t == timeType {
		return "TIMESTAMP", nil
	}
	switch t.Kind() {
	case reflect.String:
		return fmt.Sprintf("VARCHAR(%d)", maxLength), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "INTEGER", nil
	case reflect.Float32, reflect.Float64:
		return "REAL", nil
	case reflect.Bool:
		return "BOOLEAN", nil
	}
	return "", fmt.Errorf("unsupported type %s", t)
}

// columnDef renders one column of the CREATE TABLE statement.
func (f *field) columnDef() string {
	var b strings.Builder
	b.WriteString(f.column)
	b.WriteByte(' ')
	if f.primaryKey && f.auto {
		b.WriteString("INTEGER PRIMARY KEY AUTOINCREMENT")
		return b.String()
	}
	b.WriteString(f.sqlType)
	if f.primaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if f.notNull {
		b.WriteString(" NOT NULL")
	}
	if f.unique {
		b.WriteString(" UNIQUE")
	}
	if f.hasDefault {
		b.WriteString(" DEFAULT ")
		b.WriteString(quoteDefault(f.defValue, f.sqlType))
	}
	return b.String()
}

func quoteDefault(value, sqlType string) string {
	if strings.HasPrefix(sqlType, "VARCHAR") || sqlType == "TIMESTAMP" {
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	}
	return value
}

// CreateTable creates the table for sample's type if it does not exist.
func (m *Manager) CreateTable(sample any) error {
	mi, err := modelOf(baseType(sample))
	if err != nil {
		return err
	}

	defs := make([]string, len(mi.fields))
	for i := range mi.fields {
		defs[i] = mi.fields[i].columnDef()
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", mi.table, strings.Join(defs, ", "))
	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("create table %s: %w", mi.table, err)
	}
	return nil
}

// Save persists instance: records with an unset primary key are inserted
// (and, for auto keys, receive the generated id), anything else is updated
// in place.
func (m *Manager) Save(instance any) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("orm: Save wants a struct pointer, got %T", instance)
	}
	v = v.Elem()

	mi, err := modelOf(v.Type())
	if err != nil {
		return err
	}
	if mi.pk == nil {
		return fmt.Errorf("orm: %s has no primary key", mi.table)
	}

	pkValue := v.Field(mi.pk.index)
	if pkValue.IsZero() {
		return m.insert(mi, v)
	}
	return m.update(mi, v)
}

func (m *Manager) insert(mi *model, v reflect.Value) error {
	var columns []string
	var marks []string
	var args []any
	for i := range mi.fields {
		f := &mi.fields[i]
		if f.auto {
			continue
		}
		columns = append(columns, f.column)
		marks = append(marks, "?")
		args = append(args, v.Field(f.index).Interface())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		mi.table, strings.Join(columns, ", "), strings.Join(marks, ", "))
	res, err := m.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", mi.table, err)
	}

	if mi.pk.auto {
		id, err := res.LastInsertId()
		if err == nil {
			v.Field(mi.pk.index).SetInt(id)
		}
	}
	return nil
}

func (m *Manager) update(mi *model, v reflect.Value) error {
	var sets []string
	var args []any
	for i := range mi.fields {
		f := &mi.fields[i]
		if f.primaryKey {
			continue
		}
		sets = append(sets, f.column+" = ?")
		args = append(args, v.Field(f.index).Interface())
	}
	args = append(args, v.Field(mi.pk.index).Interface())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		mi.table, strings.Join(sets, ", "), mi.pk.column)
	if _, err := m.db.Exec(query, args...); err != nil {
		return fmt.Errorf("update %s: %w", mi.table, err)
	}
	return nil
}

// Delete removes instance's row by primary key.
func (m *Manager) Delete(instance any) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("orm: Delete wants a struct pointer, got %T", instance)
	}
	v = v.Elem()

	mi, err := modelOf(v.Type())
	if err != nil {
		return err
	}
	if mi.pk == nil {
		return fmt.Errorf("orm: %s has no primary key", mi.table)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", mi.table, mi.pk.column)
	if _, err := m.db.Exec(query, v.Field(mi.pk.index).Interface()); err != nil {
		return fmt.Errorf("delete from %s: %w", mi.table, err)
	}
	return nil
}

func baseType(sample any) reflect.Type {
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
