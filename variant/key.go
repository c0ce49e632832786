// Package variant derives shader variant identities from the properties a
// draw call promotes to uniforms.
//
// Bit i of a Mask is set when entry i of the property list is non-empty, so
// the list order is part of the contract: every caller must pass the same
// ordering and length for a given family.
package variant

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxProperties is the largest property list a Mask can describe.
const MaxProperties = 32

// DefinePrefix starts every synthesized define line.
const DefinePrefix = "#define HAS_UNIFORM_u_"

var (
	// ErrTooManyProperties is returned when a property list exceeds MaxProperties.
	ErrTooManyProperties = errors.New("variant: too many properties")

	// ErrInvalidProperty is returned for property names that are not
	// identifiers. They would corrupt the synthesized define lines.
	ErrInvalidProperty = errors.New("variant: property is not an identifier")
)

// Mask records which properties are promoted to uniforms.
type Mask uint32

// Has reports whether bit i is set.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= MaxProperties {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// Count returns the number of enabled properties.
func (m Mask) Count() int { return bits.OnesCount32(uint32(m)) }

// Key identifies one compiled form of a shader family.
type Key struct {
	Family string
	Mask   Mask
}

// Name returns the canonical variant name: family, "#", decimal mask.
func (k Key) Name() string {
	return k.Family + "#" + strconv.FormatUint(uint64(k.Mask), 10)
}

func (k Key) String() string { return k.Name() }

// Variant is the result of Derive.
type Variant struct {
	Key

	// Defines holds one "#define HAS_UNIFORM_u_<name>" line per enabled
	// property, newline-terminated, in input order.
	Defines string

	// Name is Key.Name(), cached.
	Name string
}

// IsBase reports whether no property is enabled.
func (v Variant) IsBase() bool { return v.Mask == 0 }

// Derive computes the variant of family for an ordered property list.
// Empty entries leave their bit clear and emit no define.
func Derive(family string, properties []string) (Variant, error) {
	if len(properties) > MaxProperties {
		return Variant{}, fmt.Errorf("%w: %d > %d", ErrTooManyProperties, len(properties), MaxProperties)
	}

	var mask Mask
	var defines strings.Builder
	for i, p := range properties {
		if p == "" {
			continue
		}
		if !isIdentifier(p) {
			return Variant{}, fmt.Errorf("%w: %q at index %d", ErrInvalidProperty, p, i)
		}
		mask |= 1 << uint(i)
		defines.WriteString(DefinePrefix)
		defines.WriteString(p)
		defines.WriteByte('\n')
	}

	key := Key{Family: family, Mask: mask}
	return Variant{
		Key:     key,
		Defines: defines.String(),
		Name:    key.Name(),
	}, nil
}

// MaskOf returns only the mask for a property list. It is cheaper than
// Derive when the defines are not needed, e.g. on the cache hit path.
func MaskOf(properties []string) (Mask, error) {
	if len(properties) > MaxProperties {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyProperties, len(properties), MaxProperties)
	}
	var mask Mask
	for i, p := range properties {
		if p != "" {
			mask |= 1 << uint(i)
		}
	}
	return mask, nil
}

// isIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
