package djws

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed vector: header {"custom": "custom_value"}, algorithm
// "test_algorithm", payload [0,1,2,3,4,5,6], signed with captureSigner
// (signature = signing input).
const (
	vectorHeaderSegment = "eyJjdXN0b20iOiJjdXN0b21fdmFsdWUiLCJhbGciOiJ0ZXN0X2FsZ29yaXRobSIsImRldGFjaGVkIjp0cnVlfQ"
	vectorToken         = vectorHeaderSegment + ".." +
		"ZXlKamRYTjBiMjBpT2lKamRYTjBiMjFmZG1Gc2RXVWlMQ0poYkdjaU9pSjBaWE4wWDJGc1oyOXlhWFJvYlNJc0ltUmxkR0ZqYUdWa0lqcDBjblZsZlEuAAECAwQFBg"
)

var vectorPayload = []byte{0, 1, 2, 3, 4, 5, 6}

// captureSigner accumulates everything written to it and returns the
// accumulated bytes as the signature, making the signing input observable.
type captureSigner struct {
	bytes.Buffer
}

func (s *captureSigner) Sign() ([]byte, error) {
	return bytes.Clone(s.Bytes()), nil
}

// failSigner fails on demand during update or finalize.
type failSigner struct {
	writeErr error
	signErr  error
}

func (s *failSigner) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}

	return len(p), nil
}

func (s *failSigner) Sign() ([]byte, error) {
	return nil, s.signErr
}

func customHeader() *Header {
	h := NewHeader()
	h.Set("custom", "custom_value")

	return h
}

func TestNewSerializeWriter(t *testing.T) {
	t.Run("fixed vector", func(t *testing.T) {
		w, err := NewSerializeWriter(nil, "test_algorithm", customHeader(), &captureSigner{})
		require.NoError(t, err)

		_, err = w.Write(vectorPayload)
		require.NoError(t, err)

		token, err := w.Finish()
		require.NoError(t, err)
		assert.Equal(t, vectorToken, token)
	})

	t.Run("output has three segments with empty payload", func(t *testing.T) {
		w, err := NewSerializeWriter(nil, AlgorithmPS256, nil, &captureSigner{})
		require.NoError(t, err)

		_, err = w.Write([]byte("payload"))
		require.NoError(t, err)

		token, err := w.Finish()
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		assert.Empty(t, parts[1])
		assert.NotEmpty(t, parts[0])
		assert.NotEmpty(t, parts[2])
	})

	t.Run("caller header is not mutated", func(t *testing.T) {
		h := customHeader()

		_, err := NewSerializeWriter(nil, AlgorithmPS256, h, &captureSigner{})
		require.NoError(t, err)

		assert.Equal(t, []string{"custom"}, h.Keys())
	})

	t.Run("protocol fields overwrite custom entries in place", func(t *testing.T) {
		h := NewHeader()
		h.Set(HeaderAlgorithm, "bogus")
		h.Set("custom", "custom_value")
		h.Set(HeaderDetached, false)

		signer := &captureSigner{}
		_, err := NewSerializeWriter(nil, AlgorithmES256, h, signer)
		require.NoError(t, err)

		headerSegment, _, ok := strings.Cut(signer.String(), ".")
		require.True(t, ok)

		headerJSON, err := DecodeSegment(headerSegment)
		require.NoError(t, err)

		decoded := NewHeader()
		require.NoError(t, json.Unmarshal(headerJSON, decoded))

		assert.Equal(t, []string{"alg", "custom", "detached"}, decoded.Keys())
		assert.Equal(t, AlgorithmES256, decoded.Algorithm())

		detached, ok := decoded.Get(HeaderDetached)
		require.True(t, ok)
		assert.Equal(t, true, detached)
	})

	t.Run("signer receives header segment and separator", func(t *testing.T) {
		signer := &captureSigner{}
		_, err := NewSerializeWriter(nil, "test_algorithm", customHeader(), signer)
		require.NoError(t, err)

		assert.Equal(t, vectorHeaderSegment+".", signer.String())
	})

	t.Run("signer write error surfaces as signing error", func(t *testing.T) {
		boom := errors.New("primitive rejected input")

		_, err := NewSerializeWriter(nil, AlgorithmPS256, nil, &failSigner{writeErr: boom})
		assert.ErrorIs(t, err, ErrSigning)
		assert.ErrorIs(t, err, boom)
	})
}

func TestSerializeWriterWrite(t *testing.T) {
	t.Run("chunked writes match a single write", func(t *testing.T) {
		single := &captureSigner{}
		w1, err := NewSerializeWriter(nil, "test_algorithm", customHeader(), single)
		require.NoError(t, err)
		_, err = w1.Write(vectorPayload)
		require.NoError(t, err)
		token1, err := w1.Finish()
		require.NoError(t, err)

		chunked := &captureSigner{}
		w2, err := NewSerializeWriter(nil, "test_algorithm", customHeader(), chunked)
		require.NoError(t, err)
		for _, b := range vectorPayload {
			_, err = w2.Write([]byte{b})
			require.NoError(t, err)
		}
		token2, err := w2.Finish()
		require.NoError(t, err)

		assert.Equal(t, token1, token2)
	})

	t.Run("pass-through sink receives the signing input", func(t *testing.T) {
		var out bytes.Buffer

		w, err := NewSerializeWriter(&out, "test_algorithm", customHeader(), &captureSigner{})
		require.NoError(t, err)

		_, err = w.Write(vectorPayload)
		require.NoError(t, err)

		_, err = w.Finish()
		require.NoError(t, err)

		want := append([]byte(vectorHeaderSegment+"."), vectorPayload...)
		assert.Equal(t, want, out.Bytes())
	})

	t.Run("write after finish is rejected", func(t *testing.T) {
		w, err := NewSerializeWriter(nil, AlgorithmPS256, nil, &captureSigner{})
		require.NoError(t, err)

		_, err = w.Finish()
		require.NoError(t, err)

		_, err = w.Write([]byte("late"))
		assert.ErrorIs(t, err, ErrWriteAfterFinish)
	})

	t.Run("signer rejection fails the sink permanently", func(t *testing.T) {
		boom := errors.New("primitive rejected input")
		signer := &failSigner{}

		w, err := NewSerializeWriter(nil, AlgorithmPS256, nil, signer)
		require.NoError(t, err)

		signer.writeErr = boom
		_, err = w.Write([]byte("payload"))
		assert.ErrorIs(t, err, ErrSigning)

		signer.writeErr = nil
		_, err = w.Write([]byte("payload"))
		assert.ErrorIs(t, err, ErrWriteAfterFinish)

		_, err = w.Finish()
		assert.ErrorIs(t, err, ErrWriteAfterFinish)
	})
}

func TestSerializeWriterFinish(t *testing.T) {
	t.Run("empty payload is valid", func(t *testing.T) {
		w, err := NewSerializeWriter(nil, AlgorithmPS256, nil, &captureSigner{})
		require.NoError(t, err)

		token, err := w.Finish()
		require.NoError(t, err)
		assert.Equal(t, 3, len(strings.Split(token, ".")))
	})

	t.Run("second finish is rejected", func(t *testing.T) {
		w, err := NewSerializeWriter(nil, AlgorithmPS256, nil, &captureSigner{})
		require.NoError(t, err)

		_, err = w.Finish()
		require.NoError(t, err)

		_, err = w.Finish()
		assert.ErrorIs(t, err, ErrWriteAfterFinish)
	})

	t.Run("signing failure is terminal", func(t *testing.T) {
		boom := errors.New("key unusable")

		w, err := NewSerializeWriter(nil, AlgorithmPS256, nil, &failSigner{signErr: boom})
		require.NoError(t, err)

		_, err = w.Finish()
		assert.ErrorIs(t, err, ErrSigning)
		assert.ErrorIs(t, err, boom)

		_, err = w.Finish()
		assert.ErrorIs(t, err, ErrWriteAfterFinish)
	})
}

func TestSerialize(t *testing.T) {
	t.Run("matches the streaming writer", func(t *testing.T) {
		token, err := Serialize("test_algorithm", customHeader(), bytes.NewReader(vectorPayload), &captureSigner{})
		require.NoError(t, err)
		assert.Equal(t, vectorToken, token)
	})

	t.Run("chunked reads match a single read", func(t *testing.T) {
		token, err := Serialize("test_algorithm", customHeader(),
			iotest.OneByteReader(bytes.NewReader(vectorPayload)), &captureSigner{})
		require.NoError(t, err)
		assert.Equal(t, vectorToken, token)
	})

	t.Run("reader error is propagated", func(t *testing.T) {
		boom := errors.New("read failed")

		_, err := Serialize(AlgorithmPS256, nil, iotest.ErrReader(boom), &captureSigner{})
		assert.ErrorIs(t, err, boom)
	})
}
