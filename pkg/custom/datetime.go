package custom

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Datetime represents a datetime.
type Datetime time.Time

// Time returns the datetime as a time.Time.
func (d Datetime) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether the datetime is unset.
func (d Datetime) IsZero() bool {
	return time.Time(d).IsZero()
}

// MarshalJSON implements the json.Marshaler interface.
func (d Datetime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`%q`, time.Time(d).UTC().Format(time.RFC3339Nano))), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		*d = Datetime{}
		return nil
	}

	var s string
	if err := json.Unmarshal(text, &s); err != nil {
		return fmt.Errorf("invalid datetime: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid datetime: %w", err)
	}
	*d = Datetime(t)
	return nil
}

// MarshalBSONValue stores the datetime as a native BSON datetime.
func (d Datetime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(time.Time(d).UTC())
}

// UnmarshalBSONValue accepts a native BSON datetime, or an RFC3339 string written by older records.
func (d *Datetime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = Datetime{}
	case bson.TypeDateTime:
		*d = Datetime(raw.Time().UTC())
	case bson.TypeString:
		parsed, err := time.Parse(time.RFC3339Nano, raw.StringValue())
		if err != nil {
			return fmt.Errorf("invalid datetime: %s", raw.StringValue())
		}
		*d = Datetime(parsed)
	default:
		return fmt.Errorf("invalid scan, bson type %s not supported for %T", t, d)
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).Format(time.RFC3339)
}
