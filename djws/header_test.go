package djws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	t.Run("serializes keys in insertion order", func(t *testing.T) {
		h := NewHeader()
		h.Set("b", "2")
		h.Set("a", "1")
		h.Set("c", true)

		out, err := json.Marshal(h)
		require.NoError(t, err)
		assert.Equal(t, `{"b":"2","a":"1","c":true}`, string(out))
	})

	t.Run("set keeps position of existing keys", func(t *testing.T) {
		h := NewHeader()
		h.Set("a", "1")
		h.Set("b", "2")
		h.Set("a", "replaced")

		assert.Equal(t, []string{"a", "b"}, h.Keys())

		v, ok := h.Get("a")
		require.True(t, ok)
		assert.Equal(t, "replaced", v)
	})

	t.Run("unmarshal preserves key order", func(t *testing.T) {
		h := NewHeader()
		require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":2,"m":3}`), h))
		assert.Equal(t, []string{"z", "a", "m"}, h.Keys())
	})

	t.Run("unmarshal rejects non-objects", func(t *testing.T) {
		for _, in := range []string{`[]`, `"x"`, `7`, `null`, `true`} {
			h := NewHeader()
			assert.Error(t, json.Unmarshal([]byte(in), h), "input %s", in)
		}
	})

	t.Run("getters", func(t *testing.T) {
		h := NewHeader()
		h.Set(HeaderAlgorithm, "PS256")
		h.Set("kid", "key-1")
		h.Set("n", 7)

		assert.Equal(t, AlgorithmPS256, h.Algorithm())
		assert.Equal(t, 3, h.Len())

		kid, ok := h.GetString("kid")
		require.True(t, ok)
		assert.Equal(t, "key-1", kid)

		_, ok = h.GetString("n")
		assert.False(t, ok)

		_, ok = h.GetString("missing")
		assert.False(t, ok)

		empty := NewHeader()
		assert.Equal(t, Algorithm(""), empty.Algorithm())
	})
}

func TestBuildHeader(t *testing.T) {
	t.Run("nil custom header", func(t *testing.T) {
		h := buildHeader(nil, AlgorithmES384)

		assert.Equal(t, []string{HeaderAlgorithm, HeaderDetached}, h.Keys())
		assert.Equal(t, AlgorithmES384, h.Algorithm())
	})

	t.Run("protocol fields appended after custom fields", func(t *testing.T) {
		custom := NewHeader()
		custom.Set("kid", "key-1")
		custom.Set("custom", "custom_value")

		h := buildHeader(custom, AlgorithmPS256)

		assert.Equal(t, []string{"kid", "custom", HeaderAlgorithm, HeaderDetached}, h.Keys())
	})

	t.Run("protocol fields win over custom entries", func(t *testing.T) {
		custom := NewHeader()
		custom.Set(HeaderDetached, "nope")
		custom.Set(HeaderAlgorithm, "forged")

		h := buildHeader(custom, AlgorithmHS256)

		assert.Equal(t, []string{HeaderDetached, HeaderAlgorithm}, h.Keys())
		assert.Equal(t, AlgorithmHS256, h.Algorithm())

		detached, ok := h.Get(HeaderDetached)
		require.True(t, ok)
		assert.Equal(t, true, detached)
	})

	t.Run("custom header is left untouched", func(t *testing.T) {
		custom := NewHeader()
		custom.Set("custom", "custom_value")

		buildHeader(custom, AlgorithmPS256)

		assert.Equal(t, []string{"custom"}, custom.Keys())
	})
}
