package djws

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// segmentEncoding is unpadded base64url per RFC 7515 Section 2. Strict mode
// rejects non-canonical trailing bits so that a segment has exactly one
// valid encoding.
var segmentEncoding = base64.RawURLEncoding.Strict()

// EncodeSegment encodes raw bytes as an unpadded base64url token segment.
func EncodeSegment(b []byte) string {
	return segmentEncoding.EncodeToString(b)
}

// DecodeSegment decodes an unpadded base64url token segment. It returns
// ErrInvalidSegment when the input contains characters outside the URL-safe
// alphabet, padding, or non-canonical trailing bits.
func DecodeSegment(s string) ([]byte, error) {
	b, err := segmentEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSegment, err)
	}

	return b, nil
}

// SplitCompact splits a compact JWS token into its three segments.
// See https://www.rfc-editor.org/rfc/rfc7515#section-7.1
//
// It returns ErrMalformedToken unless the token contains exactly two dot
// separators. The segments are returned undecoded.
func SplitCompact(token string) (header, payload, signature string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	return parts[0], parts[1], parts[2], nil
}

// AssembleCompact joins a header segment and a signature segment into a
// detached compact token. The payload segment between them is always empty.
func AssembleCompact(headerSegment, signatureSegment string) string {
	return strings.Join([]string{headerSegment, "", signatureSegment}, ".")
}
