package loot

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Amount produces a possibly random numeric value each time it is sampled.
// Amounts describe roll counts and drop quantities, and serialize to
// containers so tables holding them round trip through NBT.
//
// Usage:
//
//	rolls := loot.Between(1, 4)        // 1, 2 or 3
//	bonus := loot.BaseWithChance(2, loot.Fixed(1), 0.25)
//	n := loot.Floored(bonus, r)        // 2, or 3 a quarter of the time
type Amount interface {
	Serializable
	fmt.Stringer
	// Sample returns a value drawn from the amount's distribution using
	// the given random source.
	Sample(r *rand.Rand) float64
}

// Floored samples the amount and floors the result to an integer. Negative
// samples floor towards negative infinity, so -2.3 becomes -3.
func Floored(a Amount, r *rand.Rand) int {
	return int(math.Floor(a.Sample(r)))
}

// Amount discriminators as stored under AmountType in serialized form.
const (
	amountFixed            = "fixed"
	amountBetween          = "between"
	amountBaseWithAddition = "base_with_addition"
	amountBaseWithChance   = "base_with_chance"
)

var (
	amountTypeQuery = NewQuery("AmountType")
	valueQuery      = NewQuery("Value")
	minQuery        = NewQuery("Min")
	maxQuery        = NewQuery("Max")
	baseQuery       = NewQuery("Base")
	additionQuery   = NewQuery("Addition")
	chanceQuery     = NewQuery("Chance")
)

type fixed struct {
	value float64
}

// Fixed returns an amount that always samples to the given value. Fixed
// amounts consume no randomness, which makes rolls built from them
// deterministic.
func Fixed(value float64) Amount {
	return fixed{value: value}
}

// Sample returns the fixed value.
func (a fixed) Sample(*rand.Rand) float64 {
	return a.value
}

// ToContainer returns the container form of the amount.
func (a fixed) ToContainer() *Container {
	return NewContainer().
		Set(amountTypeQuery, amountFixed).
		Set(valueQuery, a.value)
}

// String returns the string representation of the amount.
func (a fixed) String() string {
	return fmt.Sprintf("Fixed(%v)", a.value)
}

type between struct {
	min, max float64
}

// Between returns an amount sampling uniformly from the half open range
// [min, max). A max at or below min collapses the range: the amount then
// always samples to min without consuming randomness.
func Between(min, max float64) Amount {
	return between{min: min, max: max}
}

// Sample draws a uniform value from the range.
func (a between) Sample(r *rand.Rand) float64 {
	if a.max <= a.min {
		return a.min
	}
	return a.min + r.Float64()*(a.max-a.min)
}

// ToContainer returns the container form of the amount.
func (a between) ToContainer() *Container {
	return NewContainer().
		Set(amountTypeQuery, amountBetween).
		Set(minQuery, a.min).
		Set(maxQuery, a.max)
}

// String returns the string representation of the amount.
func (a between) String() string {
	return fmt.Sprintf("Between(%v, %v)", a.min, a.max)
}

type baseWithAddition struct {
	base     float64
	addition Amount
}

// BaseWithAddition returns an amount sampling to the given base plus a
// sample of the addition amount. BaseWithAddition panics if the addition is
// nil.
func BaseWithAddition(base float64, addition Amount) Amount {
	if addition == nil {
		panic("loot: base with addition requires an addition amount")
	}
	return baseWithAddition{base: base, addition: addition}
}

// Sample returns the base plus a sample of the addition.
func (a baseWithAddition) Sample(r *rand.Rand) float64 {
	return a.base + a.addition.Sample(r)
}

// ToContainer returns the container form of the amount.
func (a baseWithAddition) ToContainer() *Container {
	return NewContainer().
		Set(amountTypeQuery, amountBaseWithAddition).
		Set(baseQuery, a.base).
		Set(additionQuery, a.addition)
}

// String returns the string representation of the amount.
func (a baseWithAddition) String() string {
	return fmt.Sprintf("BaseWithAddition(%v, %v)", a.base, a.addition)
}

type baseWithChance struct {
	base     float64
	addition Amount
	chance   float64
}

// BaseWithChance returns an amount sampling to the given base, plus a
// sample of the addition amount with the given probability. The chance is
// clamped to [0, 1]. BaseWithChance panics if the addition is nil.
func BaseWithChance(base float64, addition Amount, chance float64) Amount {
	if addition == nil {
		panic("loot: base with chance requires an addition amount")
	}
	return baseWithChance{base: base, addition: addition, chance: min(max(chance, 0), 1)}
}

// Sample returns the base, plus a sample of the addition with the
// configured probability.
func (a baseWithChance) Sample(r *rand.Rand) float64 {
	if r.Float64() < a.chance {
		return a.base + a.addition.Sample(r)
	}
	return a.base
}

// ToContainer returns the container form of the amount.
func (a baseWithChance) ToContainer() *Container {
	return NewContainer().
		Set(amountTypeQuery, amountBaseWithChance).
		Set(baseQuery, a.base).
		Set(additionQuery, a.addition).
		Set(chanceQuery, a.chance)
}

// String returns the string representation of the amount.
func (a baseWithChance) String() string {
	return fmt.Sprintf("BaseWithChance(%v, %v, %v)", a.base, a.addition, a.chance)
}

// DecodeAmount decodes an amount from its container form, as produced by
// the ToContainer method of any amount in this package.
func DecodeAmount(c *Container) (Amount, error) {
	typ, ok := c.GetString(amountTypeQuery)
	if !ok {
		return nil, fmt.Errorf("decode amount: missing amount type")
	}
	switch typ {
	case amountFixed:
		value, ok := c.GetFloat(valueQuery)
		if !ok {
			return nil, fmt.Errorf("decode amount: missing value")
		}
		return Fixed(value), nil
	case amountBetween:
		minVal, ok := c.GetFloat(minQuery)
		if !ok {
			return nil, fmt.Errorf("decode amount: missing min")
		}
		maxVal, ok := c.GetFloat(maxQuery)
		if !ok {
			return nil, fmt.Errorf("decode amount: missing max")
		}
		return Between(minVal, maxVal), nil
	case amountBaseWithAddition:
		base, addition, err := decodeBase(c)
		if err != nil {
			return nil, err
		}
		return BaseWithAddition(base, addition), nil
	case amountBaseWithChance:
		base, addition, err := decodeBase(c)
		if err != nil {
			return nil, err
		}
		chance, ok := c.GetFloat(chanceQuery)
		if !ok {
			return nil, fmt.Errorf("decode amount: missing chance")
		}
		return BaseWithChance(base, addition, chance), nil
	}
	return nil, fmt.Errorf("decode amount: unknown amount type %q", typ)
}

// decodeBase reads the base value and nested addition amount shared by the
// base with addition and base with chance forms.
func decodeBase(c *Container) (float64, Amount, error) {
	base, ok := c.GetFloat(baseQuery)
	if !ok {
		return 0, nil, fmt.Errorf("decode amount: missing base")
	}
	child, ok := c.Child(additionQuery)
	if !ok {
		return 0, nil, fmt.Errorf("decode amount: missing addition")
	}
	addition, err := DecodeAmount(child)
	if err != nil {
		return 0, nil, fmt.Errorf("decode amount: addition: %w", err)
	}
	return base, addition, nil
}
