package djws

import (
	"github.com/iancoleman/orderedmap"
)

// Reserved protected header fields. Both are set by the serializer and
// always present in a decoded header; caller-supplied values for these keys
// are overwritten (protocol fields win).
const (
	// HeaderAlgorithm is the "alg" field naming the signing algorithm.
	HeaderAlgorithm = "alg"

	// HeaderDetached marks the payload as detached and unencoded. Its
	// value is always true: the payload never appears in the token and
	// the raw payload bytes enter the signing input without base64
	// encoding.
	HeaderDetached = "detached"
)

// Header is the protected JWS header: an ordered mapping from string keys
// to JSON values. Insertion order is preserved through serialization, so
// two headers built from the same entries in the same order produce
// byte-identical JSON.
//
// The zero value is not usable; call NewHeader.
type Header struct {
	m *orderedmap.OrderedMap
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{m: orderedmap.New()}
}

// Set stores value under key. A new key is appended after all existing
// keys; an existing key keeps its position and has its value replaced.
func (h *Header) Set(key string, value any) {
	h.m.Set(key, value)
}

// Get returns the value stored under key.
func (h *Header) Get(key string) (any, bool) {
	return h.m.Get(key)
}

// GetString returns the value stored under key when it is a JSON string.
func (h *Header) GetString(key string) (string, bool) {
	v, ok := h.m.Get(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// Algorithm returns the value of the "alg" field, or the empty string when
// the field is absent or not a string.
func (h *Header) Algorithm() Algorithm {
	s, _ := h.GetString(HeaderAlgorithm)

	return Algorithm(s)
}

// Keys returns the header keys in insertion order.
func (h *Header) Keys() []string {
	return h.m.Keys()
}

// Len returns the number of header fields.
func (h *Header) Len() int {
	return len(h.m.Keys())
}

// MarshalJSON serializes the header as a JSON object with keys in
// insertion order and standard string escaping.
func (h *Header) MarshalJSON() ([]byte, error) {
	return h.m.MarshalJSON()
}

// UnmarshalJSON parses a JSON object, preserving key order. Non-object
// input is rejected.
func (h *Header) UnmarshalJSON(b []byte) error {
	if h.m == nil {
		h.m = orderedmap.New()
	}

	return h.m.UnmarshalJSON(b)
}

// clone returns an independent copy of the header. Values are shared, not
// deep-copied.
func (h *Header) clone() *Header {
	out := NewHeader()
	for _, k := range h.m.Keys() {
		v, _ := h.m.Get(k)
		out.m.Set(k, v)
	}

	return out
}

// buildHeader merges caller-supplied custom fields with the two protocol
// fields. The caller's header is never mutated. Protocol fields overwrite
// custom entries in place when the key already exists, otherwise they are
// appended, so the result is deterministic given the custom field order.
func buildHeader(custom *Header, algorithm Algorithm) *Header {
	var h *Header
	if custom != nil {
		h = custom.clone()
	} else {
		h = NewHeader()
	}

	h.Set(HeaderAlgorithm, algorithm.String())
	h.Set(HeaderDetached, true)

	return h
}
