package gts

// Location is an opaque packed geohash. NoLocation means "no location
// attached to this datapoint" — the ChunkSet never validates it.
type Location uint64

// NoLocation is the sentinel Location value meaning "not set".
const NoLocation Location = 1<<64 - 1

// Elevation is an opaque signed altitude, typically in millimetres.
// NoElevation means "not set".
type Elevation int64

// NoElevation is the sentinel Elevation value meaning "not set".
const NoElevation Elevation = -(1 << 63)

// ValueType discriminates the dynamically typed Value carried by a
// datapoint, mirroring the value-type discrimination a GTS codec must
// perform on the wire.
type ValueType uint8

const (
	// ValueTypeLong marks a Value holding an int64.
	ValueTypeLong ValueType = iota
	// ValueTypeDouble marks a Value holding a float64.
	ValueTypeDouble
	// ValueTypeBoolean marks a Value holding a bool.
	ValueTypeBoolean
	// ValueTypeString marks a Value holding a string.
	ValueTypeString
)

// String returns a human-readable name for the value type.
func (t ValueType) String() string {
	switch t {
	case ValueTypeLong:
		return "long"
	case ValueTypeDouble:
		return "double"
	case ValueTypeBoolean:
		return "boolean"
	case ValueTypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a discriminated scalar: exactly one of Long, Double, Bool, or
// Str is meaningful, selected by Type. The ChunkSet never inspects it;
// only the codec and any instrumentation built on top (internal/metrics)
// look inside.
type Value struct {
	Type   ValueType
	Long   int64
	Double float64
	Bool   bool
	Str    string
}

// LongValue constructs a Value holding an int64.
func LongValue(v int64) Value { return Value{Type: ValueTypeLong, Long: v} }

// DoubleValue constructs a Value holding a float64.
func DoubleValue(v float64) Value { return Value{Type: ValueTypeDouble, Double: v} }

// BooleanValue constructs a Value holding a bool.
func BooleanValue(v bool) Value { return Value{Type: ValueTypeBoolean, Bool: v} }

// StringValue constructs a Value holding a string.
func StringValue(v string) Value { return Value{Type: ValueTypeString, Str: v} }

// AsFloat64 returns the value as a float64 and true if Type is a numeric
// or boolean kind; string values return (0, false).
func (v Value) AsFloat64() (float64, bool) {
	switch v.Type {
	case ValueTypeLong:
		return float64(v.Long), true
	case ValueTypeDouble:
		return v.Double, true
	case ValueTypeBoolean:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Tuple is one (timestamp, location, elevation, value) datapoint of a
// Geo Time Series, the unit the codec serialises and the ChunkSet
// buckets into slots.
type Tuple struct {
	Timestamp int64
	Location  Location
	Elevation Elevation
	Value     Value
}
