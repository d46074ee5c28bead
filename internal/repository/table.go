package repository

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

// Table is the generic repository over one table whose rows scan into T.
// Columns are the db-tagged top-level fields of T as seen by the sqlx mapper.
type Table[T any] struct {
	gw      *database.Gateway
	name    string
	keys    []string
	columns []string
	kinds   map[string]reflect.Type
}

// NewTable builds the repository for table name keyed by keys.
func NewTable[T any](gw *database.Gateway, name string, keys ...string) *Table[T] {
	t := &Table[T]{gw: gw, name: name, keys: keys, kinds: make(map[string]reflect.Type)}
	tm := gw.Mapper().TypeMap(reflect.TypeOf((*T)(nil)).Elem())
	for _, fi := range tm.Tree.Children {
		// untagged fields would be mapped by the lower-cased field name
		if fi == nil || fi.Embedded || fi.Field.Tag.Get("db") == "" {
			continue
		}
		t.columns = append(t.columns, fi.Name)
		t.kinds[fi.Name] = fi.Field.Type
	}
	for _, key := range keys {
		if _, ok := t.kinds[key]; !ok {
			panic(fmt.Sprintf("repository: key %q is not a column of %s", key, name))
		}
	}
	return t
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Keys returns the primary key columns.
func (t *Table[T]) Keys() []string { return t.keys }

// Columns returns the declared columns in declaration order.
func (t *Table[T]) Columns() []string { return t.columns }

// Has reports whether column is declared.
func (t *Table[T]) Has(column string) bool {
	_, ok := t.kinds[column]
	return ok
}

// Check rejects bags naming undeclared columns.
func (t *Table[T]) Check(cols database.Columns) error {
	var invalid []appErrors.FieldError
	for _, col := range cols {
		if !t.Has(col.Name) {
			invalid = append(invalid, appErrors.FieldError{Param: col.Name, Msg: "unknown property"})
		}
	}
	if len(invalid) > 0 {
		return appErrors.Invalid(invalid...)
	}
	return nil
}

// Bag converts a decoded JSON object into declared-order columns. Integral
// JSON numbers become int64; nested objects and arrays are rejected.
func (t *Table[T]) Bag(attrs map[string]interface{}) (database.Columns, error) {
	var invalid []appErrors.FieldError
	for name, value := range attrs {
		if !t.Has(name) {
			invalid = append(invalid, appErrors.FieldError{Param: name, Msg: "unknown property"})
			continue
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			invalid = append(invalid, appErrors.FieldError{Param: name, Msg: "must be a scalar value"})
		}
	}
	if len(invalid) > 0 {
		sort.Slice(invalid, func(i, j int) bool { return invalid[i].Param < invalid[j].Param })
		return nil, appErrors.Invalid(invalid...)
	}

	cols := make(database.Columns, 0, len(attrs))
	for _, column := range t.columns {
		value, ok := attrs[column]
		if !ok {
			continue
		}
		if f, isFloat := value.(float64); isFloat && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			value = int64(f)
		}
		cols = append(cols, database.Column{Name: column, Value: value})
	}
	return cols, nil
}

// Coerce parses a raw path or query value according to the column's Go type.
func (t *Table[T]) Coerce(column, raw string) (interface{}, error) {
	typ, ok := t.kinds[column]
	if !ok {
		return nil, appErrors.Invalid(appErrors.FieldError{Param: column, Msg: "unknown property"})
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, appErrors.Invalid(appErrors.FieldError{Param: column, Msg: "must be an integer"})
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, appErrors.Invalid(appErrors.FieldError{Param: column, Msg: "must be a number"})
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, appErrors.Invalid(appErrors.FieldError{Param: column, Msg: "must be a boolean"})
		}
		return v, nil
	}
	return raw, nil
}

// Value reads a column of a scanned row.
func (t *Table[T]) Value(row *T, column string) (interface{}, bool) {
	if row == nil || !t.Has(column) {
		return nil, false
	}
	field := t.gw.Mapper().FieldByName(reflect.ValueOf(row).Elem(), column)
	if !field.IsValid() {
		return nil, false
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, true
		}
		field = field.Elem()
	}
	return field.Interface(), true
}

func (t *Table[T]) selectList() string {
	return strings.Join(t.columns, ", ")
}

func (t *Table[T]) selectQuery(filters database.Columns) (string, []interface{}) {
	query := "SELECT " + t.selectList() + " FROM " + t.name
	clause, args := database.Where(filters, 1)
	if clause != "" {
		query += " WHERE " + clause
	}
	return query, args
}

// FindAll returns rows matching every filter. An empty result is NotFound.
func (t *Table[T]) FindAll(ctx context.Context, exec sqlx.ExtContext, filters database.Columns) ([]T, error) {
	if err := t.Check(filters); err != nil {
		return nil, err
	}
	query, args := t.selectQuery(filters)
	query += " ORDER BY " + strings.Join(t.keys, ", ")

	var rows []T
	if err := t.gw.Select(ctx, exec, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no %s found", t.name))
	}
	return rows, nil
}

// FindOne returns the first row matching every filter.
func (t *Table[T]) FindOne(ctx context.Context, exec sqlx.ExtContext, filters database.Columns) (*T, error) {
	if err := t.Check(filters); err != nil {
		return nil, err
	}
	query, args := t.selectQuery(filters)
	query += " LIMIT 1"

	var row T
	if err := t.gw.Get(ctx, exec, &row, query, args...); err != nil {
		if appErrors.FromError(err).Code == appErrors.CodeNotFound {
			return nil, appErrors.Wrap(err, appErrors.CodeNotFound, appErrors.ErrNotFound.Status, fmt.Sprintf("%s not found", t.name))
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a fully specified row. Zero returned rows is CreateFailed.
func (t *Table[T]) Create(ctx context.Context, exec sqlx.ExtContext, attrs database.Columns) (*models.CreateResult, error) {
	if len(attrs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidProperties, "no properties to insert")
	}
	if err := t.Check(attrs); err != nil {
		return nil, err
	}
	returning := "1"
	if len(t.keys) == 1 {
		returning = t.keys[0]
	}
	query, args := database.Insert(t.name, attrs, returning)

	var generated []interface{}
	if err := t.gw.Select(ctx, exec, &generated, query, args...); err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, appErrors.Clone(appErrors.ErrCreateFailed, fmt.Sprintf("%s was not created", t.name))
	}
	result := &models.CreateResult{AffectedRows: int64(len(generated))}
	if len(t.keys) == 1 {
		result.GeneratedID = normalizeGenerated(generated[0])
	}
	return result, nil
}

type updateCounts struct {
	Matched int64 `db:"matched_rows"`
	Changed int64 `db:"changed_rows"`
}

// Update writes attrs to the row identified by key. No matching row is NotFound;
// a matching row whose values already equal attrs is UpdateFailed.
func (t *Table[T]) Update(ctx context.Context, exec sqlx.ExtContext, attrs, key database.Columns) (*models.UpdateResult, error) {
	if len(key) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidProperties, "update requires a key")
	}
	if len(attrs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidProperties, "no properties to update")
	}
	if err := t.Check(append(append(database.Columns{}, key...), attrs...)); err != nil {
		return nil, err
	}

	where, keyArgs := database.Where(key, 1)
	set, setArgs := database.Assignments(attrs, len(keyArgs)+1)
	changed := database.DistinctFrom(attrs, len(keyArgs)+1)
	query := fmt.Sprintf(
		"WITH matched AS (SELECT 1 FROM %[1]s WHERE %[2]s), "+
			"changed AS (UPDATE %[1]s SET %[3]s WHERE %[2]s AND %[4]s RETURNING 1) "+
			"SELECT (SELECT COUNT(*) FROM matched) AS matched_rows, (SELECT COUNT(*) FROM changed) AS changed_rows",
		t.name, where, set, changed,
	)

	var counts updateCounts
	if err := t.gw.Get(ctx, exec, &counts, query, append(keyArgs, setArgs...)...); err != nil {
		return nil, err
	}
	if counts.Matched == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", t.name))
	}
	if counts.Changed == 0 {
		return nil, appErrors.Clone(appErrors.ErrUpdateFailed, fmt.Sprintf("%s was not changed", t.name))
	}
	return &models.UpdateResult{
		MatchedRows: counts.Matched,
		ChangedRows: counts.Changed,
		Info:        fmt.Sprintf("Rows matched: %d  Changed: %d  Warnings: 0", counts.Matched, counts.Changed),
	}, nil
}

// Delete removes the row identified by key. Zero removed rows is NotFound.
func (t *Table[T]) Delete(ctx context.Context, exec sqlx.ExtContext, key database.Columns) (*models.DeleteResult, error) {
	if len(key) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidProperties, "delete requires a key")
	}
	if err := t.Check(key); err != nil {
		return nil, err
	}
	where, args := database.Where(key, 1)
	res, err := t.gw.Exec(ctx, exec, "DELETE FROM "+t.name+" WHERE "+where, args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnexpected.Code, appErrors.ErrUnexpected.Status, appErrors.ErrUnexpected.Message)
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", t.name))
	}
	return &models.DeleteResult{AffectedRows: affected}, nil
}

func normalizeGenerated(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
