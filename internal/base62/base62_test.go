package base62

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "a"},
		{35, "z"},
		{36, "A"},
		{61, "Z"},
		{62, "10"},
		{63, "11"},
		{3844, "100"},
		{math.MaxInt64, "aZl8N0y58M7"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Encode(c.n), "Encode(%d)", c.n)
	}
}

func TestDecode(t *testing.T) {
	t.Run("inverse of encode", func(t *testing.T) {
		values := []int64{0, 1, 61, 62, 63, 3843, 3844, 238327, 1_000_000, math.MaxInt64}

		for _, n := range values {
			got, err := Decode(Encode(n))

			require.NoError(t, err)
			assert.Equal(t, n, got)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := Decode("")

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("byte outside alphabet", func(t *testing.T) {
		for _, s := range []string{"abc-", "a b", "ab!", "=="} {
			_, err := Decode(s)

			assert.ErrorIs(t, err, ErrInvalidCode, "Decode(%q)", s)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := Decode("ZZZZZZZZZZZZ")

		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestEncode_Injective(t *testing.T) {
	seen := make(map[string]int64, 10_000)

	for n := int64(0); n < 10_000; n++ {
		code := Encode(n)

		prev, ok := seen[code]
		require.False(t, ok, "Encode(%d) collides with Encode(%d): %q", n, prev, code)
		seen[code] = n
	}
}
