package activerecord

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ToMap serializes an entity into a plain attribute map, dropping every
// hidden attribute and converting values into JSON-friendly types
// (timestamps become RFC 3339 strings).
func (m Model[E]) ToMap(entity E) (Attrs, error) {
	attrs, err := m.mat.Dematerialize(entity)
	if err != nil {
		return nil, errors.Join(ErrDematerializeFailed, err)
	}

	visible := m.schema.SanitizeForRead(attrs)

	out := make(Attrs, len(visible))
	for attribute, value := range visible {
		out[attribute] = jsonValue(value)
	}

	return out, nil
}

// ToJSON serializes an entity into a JSON object, applying the same hidden
// attribute filtering as ToMap.
func (m Model[E]) ToJSON(entity E) ([]byte, error) {
	attrs, err := m.ToMap(entity)
	if err != nil {
		return nil, err
	}

	return jsonAPI.Marshal(attrs)
}

// jsonValue converts a single attribute value into a JSON-friendly type,
// recursing into slices and maps.
func jsonValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []byte:
		return string(v)
	case []any:
		converted := make([]any, len(v))
		for i, item := range v {
			converted[i] = jsonValue(item)
		}
		return converted
	case map[string]any:
		converted := make(map[string]any, len(v))
		for key, item := range v {
			converted[key] = jsonValue(item)
		}
		return converted
	default:
		return value
	}
}
