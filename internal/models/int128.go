package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strings"

	"github.com/shopspring/decimal"
)

// Int128 is a signed 128-bit integer: a two's-complement value held in two
// 64-bit limbs. Arithmetic is checked, never wrapping; big.Int is used only
// at the parse/format boundary.
type Int128 struct {
	hi int64
	lo uint64
}

var (
	// MaxInt128 is 2^127 - 1.
	MaxInt128 = Int128{hi: math.MaxInt64, lo: math.MaxUint64}
	// MinInt128 is -2^127.
	MinInt128 = Int128{hi: math.MinInt64, lo: 0}

	maxInt128Big = MaxInt128.Big()
	minInt128Big = MinInt128.Big()
	mask128      = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	mask64       = new(big.Int).SetUint64(math.MaxUint64)
)

// Int128FromInt64 widens v with sign extension.
func Int128FromInt64(v int64) Int128 {
	return Int128{hi: v >> 63, lo: uint64(v)}
}

// ParseInt128 parses a base-10 integer, rejecting values outside
// [-2^127, 2^127-1].
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Int128{}, fmt.Errorf("int128: invalid integer %q", s)
	}
	return int128FromBig(b)
}

// Int128FromDecimal converts d, rejecting fractional or out-of-range values.
func Int128FromDecimal(d decimal.Decimal) (Int128, error) {
	if !d.IsInteger() {
		return Int128{}, fmt.Errorf("int128: %s is not an integer", d.String())
	}
	return int128FromBig(d.BigInt())
}

func int128FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(minInt128Big) < 0 || b.Cmp(maxInt128Big) > 0 {
		return Int128{}, fmt.Errorf("int128: %s out of range", b.String())
	}
	// And interprets negatives as infinite two's complement, so this yields
	// the low 128 bits as a non-negative value.
	u := new(big.Int).And(b, mask128)
	lo := new(big.Int).And(u, mask64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Int128{hi: int64(hi), lo: lo}, nil
}

// Big returns the value as a big.Int.
func (a Int128) Big() *big.Int {
	b := new(big.Int).SetInt64(a.hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(a.lo))
}

// Decimal returns the value as a shopspring decimal with zero exponent.
func (a Int128) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.Big(), 0)
}

// CheckedAdd returns a+b and true, or the zero value and false if the sum
// does not fit in 128 bits.
func (a Int128) CheckedAdd(b Int128) (Int128, bool) {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi := uint64(a.hi) + uint64(b.hi) + carry
	sum := Int128{hi: int64(hi), lo: lo}
	// Signed overflow: operands share a sign and the result sign differs.
	if (a.hi < 0) == (b.hi < 0) && (sum.hi < 0) != (a.hi < 0) {
		return Int128{}, false
	}
	return sum, true
}

// CheckedSub returns a-b and true, or the zero value and false if the
// difference does not fit in 128 bits.
func (a Int128) CheckedSub(b Int128) (Int128, bool) {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi := uint64(a.hi) - uint64(b.hi) - borrow
	diff := Int128{hi: int64(hi), lo: lo}
	// Signed overflow: operand signs differ and the result sign differs
	// from the minuend.
	if (a.hi < 0) != (b.hi < 0) && (diff.hi < 0) != (a.hi < 0) {
		return Int128{}, false
	}
	return diff, true
}

// Cmp returns -1, 0 or +1 comparing a against b.
func (a Int128) Cmp(b Int128) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	default:
		return 0
	}
}

// Sign returns -1 for negative values, 0 for zero, +1 for positive.
func (a Int128) Sign() int {
	if a.hi == 0 && a.lo == 0 {
		return 0
	}
	if a.hi < 0 {
		return -1
	}
	return 1
}

func (a Int128) String() string {
	return a.Big().String()
}

// MarshalJSON encodes the value as a decimal string so it survives JSON
// number precision limits.
func (a Int128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare number.
func (a *Int128) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseInt128(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value implements driver.Valuer; the value travels as a decimal string
// suitable for a NUMERIC column.
func (a Int128) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner.
func (a *Int128) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*a = Int128FromInt64(v)
		return nil
	case string:
		parsed, err := ParseInt128(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case []byte:
		parsed, err := ParseInt128(string(v))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	default:
		return fmt.Errorf("int128: cannot scan %T", src)
	}
}
