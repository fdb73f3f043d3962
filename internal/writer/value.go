// Package writer serializes host-built feature records straight to
// FeatureCollection text, without building a JSON value first.
package writer

// Kind is the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindTable
	KindMapping
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindList:    "list",
	KindTable:   "table",
	KindMapping: "mapping",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a tagged host value. The variant is fixed when the value is
// built and never re-derived.
type Value struct {
	s       string
	list    []Value
	table   [][]float64
	mapping []Member
	i       int64
	f       float64
	kind    Kind
	b       bool
}

// Member is one named entry of a mapping. Mappings keep member order.
type Member struct {
	Name  string
	Value Value
}

// Record is one feature record: a mapping of its top level members.
type Record []Member

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps an ordered sequence of values.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Table wraps a numeric table, one row per position.
func Table(rows [][]float64) Value { return Value{kind: KindTable, table: rows} }

// Mapping wraps an ordered set of members.
func Mapping(members ...Member) Value { return Value{kind: KindMapping, mapping: members} }

// M is shorthand for a Member.
func M(name string, v Value) Member { return Member{Name: name, Value: v} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string of a KindString value.
func (v Value) Str() string { return v.s }

// Items returns the elements of a KindList value.
func (v Value) Items() []Value { return v.list }

// Rows returns the rows of a KindTable value.
func (v Value) Rows() [][]float64 { return v.table }

// Members returns the members of a KindMapping value.
func (v Value) Members() []Member { return v.mapping }

// Get returns the member called name.
func (v Value) Get(name string) (Value, bool) {
	return lookup(v.mapping, name)
}

// Get returns the member called name.
func (r Record) Get(name string) (Value, bool) {
	return lookup(r, name)
}

func lookup(members []Member, name string) (Value, bool) {
	for _, m := range members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return Value{}, false
}
