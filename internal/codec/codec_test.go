package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAt_Boundaries(t *testing.T) {
	// index 0 is exactly zero
	assert.Equal(t, 0.0, ValueAt(0, 2))

	// the last index for maxInteger=100, dp=2 is 9998 -> 99.98
	total := TotalNumbers(100, 2)
	assert.Equal(t, int64(9999), total)
	assert.Equal(t, "99.98", Format(ValueAt(total-1, 2), 2))
}

func TestValueAt_MaximalAllNines(t *testing.T) {
	// the largest representable value just under maxInteger carries an
	// all-nines fraction
	maxInteger, dp := int64(10), 4
	lastValue := maxInteger*Pow10(dp) - 1
	text := Format(ValueAt(lastValue, dp), dp)
	require.True(t, strings.HasPrefix(text, "9."))
	assert.Equal(t, "9.9999", text)
}

func TestValueAt_Pure(t *testing.T) {
	for _, idx := range []int64{0, 1, 12345, 999999999} {
		a := ValueAt(idx, 6)
		b := ValueAt(idx, 6)
		if a != b {
			t.Fatalf("ValueAt(%d, 6) not deterministic: %v != %v", idx, a, b)
		}
	}
}

func TestSerialize_FixedPointText(t *testing.T) {
	text, parsed, err := Serialize(12.345678, 6)
	require.NoError(t, err)
	assert.Equal(t, "12.345678", text)
	assert.Equal(t, 12.345678, parsed)

	// never exponent notation, even for large values
	text, _, err = Serialize(999999999.0, 6)
	require.NoError(t, err)
	assert.Equal(t, "999999999.000000", text)
}

func TestTranscode_PreservesValue(t *testing.T) {
	for _, v := range []float64{0, 0.1, 12.345678, 999999998.999999} {
		out, err := Transcode(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}
}

func TestEquivalent_Conditions(t *testing.T) {
	// both conditions hold
	assert.True(t, Equivalent(1.25, 1.25, 1.25, 2))

	// condition 1 alone fails: transcoding drifted
	assert.False(t, Equivalent(1.25, 1.25, 1.26, 2))

	// condition 2 alone fails: serialized value prints differently from
	// the original even though transcoding was faithful
	assert.False(t, Equivalent(1.25, 1.26, 1.26, 2))
}

func TestEquivalent_ExhaustiveSmallRange(t *testing.T) {
	const dp = 2
	total := TotalNumbers(100, dp)
	for index := int64(0); index < total; index++ {
		original := ValueAt(index, dp)
		_, serialized, err := Serialize(original, dp)
		require.NoError(t, err)
		deserialized, err := Transcode(serialized)
		require.NoError(t, err)
		if !Equivalent(original, serialized, deserialized, dp) {
			t.Fatalf("index %d: %v -> %v -> %v", index, original, serialized, deserialized)
		}
	}
}

func TestSafeDigits(t *testing.T) {
	cases := []struct {
		maxInteger int64
		want       int
	}{
		{100, 13},
		{1_000, 12},
		{1_000_000_000, 6},
		{Pow10(15), 0},
		{MaxSafeInteger + 1, -1},
	}
	for _, tc := range cases {
		if got := SafeDigits(tc.maxInteger); got != tc.want {
			t.Errorf("SafeDigits(%d) = %d, want %d", tc.maxInteger, got, tc.want)
		}
	}
}

func TestTotalNumbers(t *testing.T) {
	assert.Equal(t, int64(9999), TotalNumbers(100, 2))
	assert.Equal(t, int64(999_999_999_999_999), TotalNumbers(1_000_000_000, 6))
}
