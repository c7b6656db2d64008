package djws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSegment(t *testing.T) {
	t.Run("unpadded url-safe alphabet", func(t *testing.T) {
		assert.Equal(t, "AAECAwQFBg", EncodeSegment([]byte{0, 1, 2, 3, 4, 5, 6}))
		assert.Equal(t, "_-8", EncodeSegment([]byte{0xff, 0xef}))
		assert.Equal(t, "", EncodeSegment(nil))
	})
}

func TestDecodeSegment(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		b, err := DecodeSegment("AAECAwQFBg")
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6}, b)
	})

	t.Run("empty segment decodes to no bytes", func(t *testing.T) {
		b, err := DecodeSegment("")
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name    string
			segment string
		}{
			{"standard alphabet", "+/8A"},
			{"padding", "QQ=="},
			{"whitespace", "QUJ D"},
			{"non-canonical trailing bits", "QR"},
			{"invalid character", "ab!c"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := DecodeSegment(tt.segment)
				assert.ErrorIs(t, err, ErrInvalidSegment)
			})
		}
	})
}

func TestSplitCompact(t *testing.T) {
	t.Run("three segments", func(t *testing.T) {
		header, payload, signature, err := SplitCompact("aGVhZGVy..c2ln")
		require.NoError(t, err)
		assert.Equal(t, "aGVhZGVy", header)
		assert.Empty(t, payload)
		assert.Equal(t, "c2ln", signature)
	})

	t.Run("embedded payload segment is preserved", func(t *testing.T) {
		_, payload, _, err := SplitCompact("a.cGF5bG9hZA.c")
		require.NoError(t, err)
		assert.Equal(t, "cGF5bG9hZA", payload)
	})

	t.Run("wrong separator count", func(t *testing.T) {
		for _, token := range []string{"", "a", "a.b", "a.b.c.d", "...."} {
			_, _, _, err := SplitCompact(token)
			assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
		}
	})
}

func TestAssembleCompact(t *testing.T) {
	assert.Equal(t, "aGVhZGVy..c2ln", AssembleCompact("aGVhZGVy", "c2ln"))

	header, payload, signature, err := SplitCompact(AssembleCompact("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "a", header)
	assert.Empty(t, payload)
	assert.Equal(t, "b", signature)
}
