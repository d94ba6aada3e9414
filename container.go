package loot

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Serializable is implemented by values that can represent themselves as a
// Container. Containers serialize such values automatically when they are
// stored with Set.
type Serializable interface {
	// ToContainer returns the container form of the value.
	ToContainer() *Container
}

// serializableType is cached for the slice conversion in serialize.
var serializableType = reflect.TypeOf((*Serializable)(nil)).Elem()

// Container is a mutable hierarchical key/value document. Values are stored
// under queries, with nested containers created on demand for every query
// part except the last.
//
// Containers are the serialized form of every value type in this package
// and round trip through NBT with EncodeNBT and DecodeNBT.
//
// Concurrency:
// A container is not safe for concurrent use. Callers that share a
// container across goroutines must synchronize access themselves.
type Container struct {
	values map[string]any
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{values: make(map[string]any)}
}

// Set stores a value under the given query and returns the container itself
// so calls can be chained. Intermediate containers are created for every
// query part except the last, replacing any non-container value in the way.
//
// Values implementing Serializable are stored as their container form, and
// slices of such values as slices of containers. Set panics if the query is
// empty.
func (c *Container) Set(q Query, v any) *Container {
	if q.Empty() {
		panic("loot: set with an empty query")
	}
	parent := c
	for _, part := range q.parts[:len(q.parts)-1] {
		child, ok := parent.values[part].(*Container)
		if !ok {
			child = NewContainer()
			parent.values[part] = child
		}
		parent = child
	}
	parent.values[q.Last()] = serialize(v)
	return c
}

// Get retrieves the value stored under the given query. The second return
// value reports whether a value was present.
func (c *Container) Get(q Query) (any, bool) {
	if q.Empty() {
		return nil, false
	}
	parent, ok := c.descend(q)
	if !ok {
		return nil, false
	}
	v, ok := parent.values[q.Last()]
	return v, ok
}

// Contains checks if a value is stored under the given query.
func (c *Container) Contains(q Query) bool {
	_, ok := c.Get(q)
	return ok
}

// Remove removes the value stored under the given query, if any, and
// returns the container itself so calls can be chained.
func (c *Container) Remove(q Query) *Container {
	if q.Empty() {
		return c
	}
	if parent, ok := c.descend(q); ok {
		delete(parent.values, q.Last())
	}
	return c
}

// Keys returns the top level keys of the container in sorted order.
func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top level values in the container.
func (c *Container) Len() int {
	return len(c.values)
}

// Child retrieves the nested container stored under the given query.
func (c *Container) Child(q Query) (*Container, bool) {
	v, ok := c.Get(q)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Container)
	return child, ok
}

// Copy returns a deep copy of the container. Nested containers, container
// slices and string slices are copied, other values are assumed immutable.
func (c *Container) Copy() *Container {
	out := NewContainer()
	for k, v := range c.values {
		out.values[k] = copyValue(v)
	}
	return out
}

// Equal checks if two containers hold the same values under the same keys,
// including nested containers. Equality is exact: an int does not equal the
// int32 it decodes to after an NBT round trip.
func (c *Container) Equal(other *Container) bool {
	if c == nil || other == nil {
		return c == other
	}
	return reflect.DeepEqual(c.values, other.values)
}

// GetInt retrieves an integer stored under the given query. Integers of any
// width are widened, so an int32 read back from NBT satisfies GetInt.
func (c *Container) GetInt(q Query) (int, bool) {
	v, ok := c.Get(q)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// GetFloat retrieves a float stored under the given query. Integer values
// are converted.
func (c *Container) GetFloat(q Query) (float64, bool) {
	v, ok := c.Get(q)
	if !ok {
		return 0, false
	}
	return asFloat(v)
}

// GetBool retrieves a boolean stored under the given query. NBT bytes count
// as booleans, with any non-zero value reading as true.
func (c *Container) GetBool(q Query) (bool, bool) {
	v, ok := c.Get(q)
	if !ok {
		return false, false
	}
	return asBool(v)
}

// GetString retrieves a string stored under the given query.
func (c *Container) GetString(q Query) (string, bool) {
	v, ok := c.Get(q)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetStringSlice retrieves a slice of strings stored under the given query.
func (c *Container) GetStringSlice(q Query) ([]string, bool) {
	v, ok := c.Get(q)
	if !ok {
		return nil, false
	}
	return asStringSlice(v)
}

// GetContainers retrieves a slice of containers stored under the given
// query.
func (c *Container) GetContainers(q Query) ([]*Container, bool) {
	v, ok := c.Get(q)
	if !ok {
		return nil, false
	}
	return asContainers(v)
}

// String returns a readable single line form of the container with keys in
// sorted order.
func (c *Container) String() string {
	var sb strings.Builder
	sb.WriteString("Container{")
	for i, k := range c.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", k, c.values[k])
	}
	sb.WriteString("}")
	return sb.String()
}

// EncodeNBT encodes the container to its NBT representation, using the
// little endian encoding the host runtime persists data with. Go int values
// are stored as 32 bit integers, the typed getters widen them again on
// read. Empty lists lose their element type and decode as untyped lists,
// which the typed getters accept as well.
func (c *Container) EncodeNBT() ([]byte, error) {
	m, err := nbtMap(c)
	if err != nil {
		return nil, err
	}
	b, err := nbt.MarshalEncoding(m, nbt.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode nbt: %w", err)
	}
	return b, nil
}

// DecodeNBT decodes a container from its NBT representation, as produced by
// EncodeNBT.
func DecodeNBT(b []byte) (*Container, error) {
	var m map[string]any
	if err := nbt.UnmarshalEncoding(b, &m, nbt.LittleEndian); err != nil {
		return nil, fmt.Errorf("decode nbt: %w", err)
	}
	return containerFromMap(m), nil
}

// descend walks the container tree along all parts of the query except the
// last and returns the container holding the addressed value.
func (c *Container) descend(q Query) (*Container, bool) {
	parent := c
	for _, part := range q.parts[:len(q.parts)-1] {
		child, ok := parent.values[part].(*Container)
		if !ok {
			return nil, false
		}
		parent = child
	}
	return parent, true
}

// serialize converts a value to its stored form: Serializable values become
// containers and slices of them become container slices. Other values are
// stored as they are.
func serialize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *Container:
		return val
	case Serializable:
		return val.ToContainer()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return v
	}
	elem := rv.Type().Elem()
	if !elem.Implements(serializableType) {
		// Untyped slices only convert when every element implements
		// Serializable, which an empty slice cannot show.
		if elem.Kind() != reflect.Interface || rv.Len() == 0 {
			return v
		}
	}
	out := make([]*Container, rv.Len())
	for i := range out {
		s, ok := rv.Index(i).Interface().(Serializable)
		if !ok {
			// A mixed interface slice is stored untouched.
			return v
		}
		out[i] = s.ToContainer()
	}
	return out
}

// copyValue deep copies the stored forms that are mutable.
func copyValue(v any) any {
	switch val := v.(type) {
	case *Container:
		return val.Copy()
	case []*Container:
		out := make([]*Container, len(val))
		for i, child := range val {
			out[i] = child.Copy()
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case uint8:
		return b != 0, true
	}
	return false, false
}

func asStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out, true
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = str
		}
		return out, true
	}
	return nil, false
}

func asContainers(v any) ([]*Container, bool) {
	switch s := v.(type) {
	case []*Container:
		out := make([]*Container, len(s))
		copy(out, s)
		return out, true
	case []any:
		out := make([]*Container, len(s))
		for i, e := range s {
			switch c := e.(type) {
			case *Container:
				out[i] = c
			case map[string]any:
				out[i] = containerFromMap(c)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

// nbtMap converts a container to the map form the NBT codec accepts.
func nbtMap(c *Container) (map[string]any, error) {
	m := make(map[string]any, len(c.values))
	for k, v := range c.values {
		conv, err := nbtValue(v)
		if err != nil {
			return nil, fmt.Errorf("encode nbt: key %q: %w", k, err)
		}
		m[k] = conv
	}
	return m, nil
}

// nbtValue converts a stored value to a type the NBT codec accepts. Plain
// ints narrow to int32, nested containers become maps.
func nbtValue(v any) (any, error) {
	switch val := v.(type) {
	case *Container:
		return nbtMap(val)
	case []*Container:
		out := make([]map[string]any, len(val))
		for i, child := range val {
			m, err := nbtMap(child)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	case int:
		return int32(val), nil
	case uint:
		return int32(val), nil
	case []int:
		out := make([]int32, len(val))
		for i, n := range val {
			out[i] = int32(n)
		}
		return out, nil
	case []any:
		return nbtList(val)
	}
	return v, nil
}

// nbtList converts an untyped list to a typed slice the NBT codec accepts.
// NBT lists are homogeneous, so the type of the first element decides. An
// empty list carries no element type and encodes as an empty compound
// list, which decodes back as an empty untyped list.
func nbtList(list []any) (any, error) {
	if len(list) == 0 {
		return []map[string]any{}, nil
	}
	switch list[0].(type) {
	case *Container, map[string]any:
		out := make([]map[string]any, len(list))
		for i, e := range list {
			cs, ok := asContainers([]any{e})
			if !ok {
				return nil, fmt.Errorf("mixed list element %T", e)
			}
			m, err := nbtMap(cs[0])
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	case string:
		out, ok := asStringSlice(list)
		if !ok {
			return nil, fmt.Errorf("mixed string list")
		}
		return out, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		out := make([]int32, len(list))
		for i, e := range list {
			n, ok := asInt(e)
			if !ok {
				return nil, fmt.Errorf("mixed integer list element %T", e)
			}
			out[i] = int32(n)
		}
		return out, nil
	case float32, float64:
		out := make([]float64, len(list))
		for i, e := range list {
			f, ok := asFloat(e)
			if !ok {
				return nil, fmt.Errorf("mixed float list element %T", e)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported list element %T", list[0])
}

// containerFromMap converts an NBT compound back into a container,
// recursing into nested compounds and lists.
func containerFromMap(m map[string]any) *Container {
	c := NewContainer()
	for k, v := range m {
		c.values[k] = valueFromNBT(v)
	}
	return c
}

func valueFromNBT(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return containerFromMap(val)
	case []map[string]any:
		out := make([]*Container, len(val))
		for i, m := range val {
			out[i] = containerFromMap(m)
		}
		return out
	case []any:
		out := make([]any, len(val))
		// An empty list stays untyped.
		containers := len(val) > 0
		for i, e := range val {
			out[i] = valueFromNBT(e)
			if _, ok := out[i].(*Container); !ok {
				containers = false
			}
		}
		if containers {
			cs := make([]*Container, len(out))
			for i, e := range out {
				cs[i] = e.(*Container)
			}
			return cs
		}
		return out
	}
	return v
}
