package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	maxInt128Str = "170141183460469231731687303715884105727"
	minInt128Str = "-170141183460469231731687303715884105728"
)

func mustInt128(t *testing.T, s string) Int128 {
	t.Helper()
	v, err := ParseInt128(s)
	require.NoError(t, err)
	return v
}

func TestInt128FromInt64(t *testing.T) {
	assert.Equal(t, "0", Int128FromInt64(0).String())
	assert.Equal(t, "1000", Int128FromInt64(1000).String())
	assert.Equal(t, "-1", Int128FromInt64(-1).String())
	assert.Equal(t, "-9223372036854775808", Int128FromInt64(math.MinInt64).String())
	assert.Equal(t, "9223372036854775807", Int128FromInt64(math.MaxInt64).String())
}

func TestParseInt128Range(t *testing.T) {
	max := mustInt128(t, maxInt128Str)
	assert.Equal(t, 0, max.Cmp(MaxInt128))

	min := mustInt128(t, minInt128Str)
	assert.Equal(t, 0, min.Cmp(MinInt128))

	_, err := ParseInt128("170141183460469231731687303715884105728")
	assert.Error(t, err)

	_, err = ParseInt128("-170141183460469231731687303715884105729")
	assert.Error(t, err)

	_, err = ParseInt128("not a number")
	assert.Error(t, err)

	_, err = ParseInt128("1.5")
	assert.Error(t, err)
}

func TestCheckedAdd(t *testing.T) {
	sum, ok := Int128FromInt64(1000).CheckedAdd(Int128FromInt64(500))
	require.True(t, ok)
	assert.Equal(t, "1500", sum.String())

	sum, ok = Int128FromInt64(-5).CheckedAdd(Int128FromInt64(3))
	require.True(t, ok)
	assert.Equal(t, "-2", sum.String())

	// Carry across the limb boundary.
	sum, ok = mustInt128(t, "18446744073709551615").CheckedAdd(Int128FromInt64(1))
	require.True(t, ok)
	assert.Equal(t, "18446744073709551616", sum.String())

	_, ok = MaxInt128.CheckedAdd(Int128FromInt64(1))
	assert.False(t, ok)

	_, ok = MinInt128.CheckedAdd(Int128FromInt64(-1))
	assert.False(t, ok)

	sum, ok = MaxInt128.CheckedAdd(Int128FromInt64(-1))
	require.True(t, ok)
	assert.Equal(t, "170141183460469231731687303715884105726", sum.String())
}

func TestCheckedSub(t *testing.T) {
	diff, ok := Int128FromInt64(1000).CheckedSub(Int128FromInt64(300))
	require.True(t, ok)
	assert.Equal(t, "700", diff.String())

	// Borrow across the limb boundary.
	diff, ok = mustInt128(t, "18446744073709551616").CheckedSub(Int128FromInt64(1))
	require.True(t, ok)
	assert.Equal(t, "18446744073709551615", diff.String())

	_, ok = MinInt128.CheckedSub(Int128FromInt64(1))
	assert.False(t, ok)

	// Subtracting a negative is addition and can overflow the top.
	_, ok = MaxInt128.CheckedSub(Int128FromInt64(-1))
	assert.False(t, ok)

	diff, ok = MinInt128.CheckedSub(Int128FromInt64(-1))
	require.True(t, ok)
	assert.Equal(t, "-170141183460469231731687303715884105727", diff.String())
}

func TestCmpAndSign(t *testing.T) {
	assert.Equal(t, -1, Int128FromInt64(-1).Cmp(Int128FromInt64(1)))
	assert.Equal(t, 1, Int128FromInt64(2).Cmp(Int128FromInt64(1)))
	assert.Equal(t, 0, Int128FromInt64(7).Cmp(Int128FromInt64(7)))
	assert.Equal(t, -1, MinInt128.Cmp(MaxInt128))
	assert.Equal(t, -1, Int128FromInt64(-1).Cmp(Int128FromInt64(0)))

	assert.Equal(t, 0, Int128{}.Sign())
	assert.Equal(t, 1, Int128FromInt64(5).Sign())
	assert.Equal(t, -1, Int128FromInt64(-5).Sign())
}

func TestInt128JSON(t *testing.T) {
	data, err := json.Marshal(Int128FromInt64(123))
	require.NoError(t, err)
	assert.Equal(t, `"123"`, string(data))

	var fromString Int128
	require.NoError(t, json.Unmarshal([]byte(`"-456"`), &fromString))
	assert.Equal(t, "-456", fromString.String())

	var fromNumber Int128
	require.NoError(t, json.Unmarshal([]byte(`789`), &fromNumber))
	assert.Equal(t, "789", fromNumber.String())

	var big Int128
	require.NoError(t, json.Unmarshal([]byte(`"`+maxInt128Str+`"`), &big))
	assert.Equal(t, 0, big.Cmp(MaxInt128))
}

func TestInt128SQL(t *testing.T) {
	v, err := Int128FromInt64(42).Value()
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	var scanned Int128
	require.NoError(t, scanned.Scan(int64(-7)))
	assert.Equal(t, "-7", scanned.String())

	require.NoError(t, scanned.Scan("1001"))
	assert.Equal(t, "1001", scanned.String())

	require.NoError(t, scanned.Scan([]byte(maxInt128Str)))
	assert.Equal(t, 0, scanned.Cmp(MaxInt128))

	assert.Error(t, scanned.Scan(3.14))
}

func TestInt128Decimal(t *testing.T) {
	v, err := Int128FromDecimal(decimal.NewFromInt(42))
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())

	_, err = Int128FromDecimal(decimal.NewFromFloat(1.5))
	assert.Error(t, err)

	assert.True(t, Int128FromInt64(99).Decimal().Equal(decimal.NewFromInt(99)))
}
