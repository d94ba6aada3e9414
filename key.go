package loot

// Key addresses a value of a specific type inside a container. Keys are
// immutable values, so a single key may be shared and reused across any
// number of containers.
//
// Usage:
//
//	damage := loot.NewKey[int](loot.NewQuery("Weapon", "Damage"))
//	c := loot.NewContainer().Set(damage.Query(), 7)
//	if v, ok := damage.Get(c); ok {
//		// v == 7
//	}
//
// Typed reads tolerate the width changes of an NBT round trip: a Key[int]
// reads the int32 the codec decodes to, and a Key[int16] reads any integer
// that fits.
type Key[T any] struct {
	query Query
}

// NewKey creates a key reading values of type T under the given query.
func NewKey[T any](q Query) Key[T] {
	return Key[T]{query: q}
}

// Query returns the query the key addresses.
func (k Key[T]) Query() Query {
	return k.query
}

// Get retrieves the value under the key's query from the given container.
// The second return value reports whether a value of the key's type was
// present.
func (k Key[T]) Get(c *Container) (T, bool) {
	v, ok := c.Get(k.query)
	if !ok {
		var zero T
		return zero, false
	}
	return valueAs[T](v)
}

// GetOr retrieves the value under the key's query from the given container,
// falling back to the passed value if absent or of the wrong type.
func (k Key[T]) GetOr(c *Container, fallback T) T {
	if v, ok := k.Get(c); ok {
		return v
	}
	return fallback
}

// Set stores a value under the key's query in the given container.
func (k Key[T]) Set(c *Container, v T) {
	c.Set(k.query, v)
}

// Exists checks if a value of the key's type is present under the key's
// query in the given container.
func (k Key[T]) Exists(c *Container) bool {
	_, ok := k.Get(c)
	return ok
}

// Bind couples the key with a container, returning a value handle that
// reads and writes without repeating either.
func (k Key[T]) Bind(c *Container) Value[T] {
	return Value[T]{key: k, container: c}
}

// Value couples a key with the container it operates on. It is created
// through Key.Bind.
type Value[T any] struct {
	key       Key[T]
	container *Container
}

// Get retrieves the value under the bound query.
func (v Value[T]) Get() (T, bool) {
	return v.key.Get(v.container)
}

// GetOr retrieves the value under the bound query, falling back to the
// passed value if absent or of the wrong type.
func (v Value[T]) GetOr(fallback T) T {
	return v.key.GetOr(v.container, fallback)
}

// Set stores a value under the bound query.
func (v Value[T]) Set(val T) {
	v.key.Set(v.container, val)
}

// Exists checks if a value is present under the bound query.
func (v Value[T]) Exists() bool {
	return v.key.Exists(v.container)
}

// Keys addressing the standard serialized fields of drops. DecodeDrop reads
// these, and custom tooling may use them to inspect or patch serialized
// drops directly.
var (
	// ItemTypeKey addresses the item identifier of a serialized drop.
	ItemTypeKey = NewKey[string](NewQuery("ItemType"))
	// MetaKey addresses the item metadata value of a serialized drop.
	MetaKey = NewKey[int16](NewQuery("Meta"))
	// WeightKey addresses the selection weight of a serialized entry.
	WeightKey = NewKey[int](NewQuery("Weight"))
	// DataKey addresses the property list of a serialized drop.
	DataKey = NewKey[[]*Container](NewQuery("Data"))
	// QuantityKey addresses the quantity amount of a serialized drop.
	QuantityKey = NewKey[*Container](NewQuery("Quantity"))
)

// valueAs converts a stored value to the requested type, widening or
// narrowing integers where the container may hold a different width after
// an NBT round trip.
func valueAs[T any](v any) (T, bool) {
	if out, ok := v.(T); ok {
		return out, true
	}
	var zero T
	switch p := any(&zero).(type) {
	case *int:
		n, ok := asInt(v)
		if !ok {
			return zero, false
		}
		*p = n
	case *int16:
		n, ok := asInt(v)
		if !ok {
			return zero, false
		}
		*p = int16(n)
	case *int32:
		n, ok := asInt(v)
		if !ok {
			return zero, false
		}
		*p = int32(n)
	case *int64:
		n, ok := asInt(v)
		if !ok {
			return zero, false
		}
		*p = int64(n)
	case *float64:
		f, ok := asFloat(v)
		if !ok {
			return zero, false
		}
		*p = f
	case *float32:
		f, ok := asFloat(v)
		if !ok {
			return zero, false
		}
		*p = float32(f)
	case *bool:
		b, ok := asBool(v)
		if !ok {
			return zero, false
		}
		*p = b
	case *[]string:
		s, ok := asStringSlice(v)
		if !ok {
			return zero, false
		}
		*p = s
	case *[]*Container:
		s, ok := asContainers(v)
		if !ok {
			return zero, false
		}
		*p = s
	default:
		return zero, false
	}
	return zero, true
}
