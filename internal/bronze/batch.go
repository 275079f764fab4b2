package bronze

import (
	"fmt"
	"strings"
)

// FieldType is the declared storage type for one batch column.
type FieldType string

const (
	TypeText    FieldType = "TEXT"
	TypeInteger FieldType = "INTEGER"
	TypeReal    FieldType = "REAL"
	TypeBoolean FieldType = "BOOLEAN"
)

type Field struct {
	Name string
	Type FieldType
}

// Schema is an ordered column list. Batches carry it explicitly so that
// incompatibilities are caught before any storage I/O, not by the engine's
// insert error.
type Schema []Field

func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: schema has no columns", ErrInvalidBatch)
	}
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidBatch)
		}
		if _, ok := seen[strings.ToLower(name)]; ok {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidBatch, f.Name)
		}
		seen[strings.ToLower(name)] = struct{}{}

		switch f.Type {
		case TypeText, TypeInteger, TypeReal, TypeBoolean:
		default:
			return fmt.Errorf("%w: column %q has unknown type %q", ErrInvalidBatch, f.Name, f.Type)
		}
	}
	return nil
}

func (s Schema) ColumnIndex(name string) int {
	for i, f := range s {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

func (s Schema) ColumnNames() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// Batch is an ordered set of records sharing one schema. Values are scalars
// or nil; nested source documents are carried as pre-serialized text.
type Batch struct {
	schema Schema
	rows   [][]any
}

func NewBatch(schema Schema) (*Batch, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Batch{schema: append(Schema(nil), schema...)}, nil
}

func (b *Batch) Schema() Schema {
	return b.schema
}

func (b *Batch) Len() int {
	return len(b.rows)
}

func (b *Batch) Rows() [][]any {
	return b.rows
}

// Append adds one record. Values are validated against the schema so a bad
// record fails here, at construction time, rather than inside a transaction.
func (b *Batch) Append(values ...any) error {
	if len(values) != len(b.schema) {
		return fmt.Errorf("%w: got %d values, schema has %d columns", ErrInvalidBatch, len(values), len(b.schema))
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := checkValueType(b.schema[i], v); err != nil {
			return err
		}
	}
	b.rows = append(b.rows, append([]any(nil), values...))
	return nil
}

func checkValueType(field Field, v any) error {
	switch field.Type {
	case TypeText:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%w: column %q expects text, got %T", ErrInvalidBatch, field.Name, v)
		}
	case TypeInteger:
		switch v.(type) {
		case int, int32, int64:
		default:
			return fmt.Errorf("%w: column %q expects integer, got %T", ErrInvalidBatch, field.Name, v)
		}
	case TypeReal:
		switch v.(type) {
		case float32, float64:
		default:
			return fmt.Errorf("%w: column %q expects real, got %T", ErrInvalidBatch, field.Name, v)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%w: column %q expects boolean, got %T", ErrInvalidBatch, field.Name, v)
		}
	}
	return nil
}
