package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// IDList is a denormalized list of document ids stored as a JSON text column.
type IDList []uuid.UUID

// Contains reports whether id is in the list.
func (l IDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// With returns a copy of l with id appended. Existing ids are not duplicated.
func (l IDList) With(id uuid.UUID) IDList {
	out := make(IDList, 0, len(l)+1)
	out = append(out, l...)
	if !l.Contains(id) {
		out = append(out, id)
	}
	return out
}

// Without returns a copy of l with every occurrence of id removed.
func (l IDList) Without(id uuid.UUID) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uuid.UUID(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IDList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan IDList: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = IDList{}
		return nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("scan IDList: %w", err)
	}
	*l = ids
	return nil
}
