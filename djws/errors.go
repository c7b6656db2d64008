package djws

import "errors"

// Token format errors.
var (
	// ErrMalformedToken is returned when a compact token does not consist
	// of exactly three dot-separated segments, or when its payload segment
	// is non-empty (the payload of a detached JWS is never embedded).
	ErrMalformedToken = errors.New("djws: malformed compact token")

	// ErrInvalidSegment is returned when a token segment is not valid
	// unpadded base64url.
	ErrInvalidSegment = errors.New("djws: segment is not valid base64url")

	// ErrInvalidHeader is returned when the decoded header segment is not
	// a valid JSON object.
	ErrInvalidHeader = errors.New("djws: header is not a valid JSON object")
)

// Signing and verification errors.
var (
	// ErrSigning is returned when the signing capability rejects input or
	// fails to produce a signature.
	ErrSigning = errors.New("djws: signing failed")

	// ErrVerification is returned when the signature does not match the
	// supplied payload or the verification capability errors.
	ErrVerification = errors.New("djws: signature verification failed")

	// ErrNoVerifier is returned when the verifier resolver selects no
	// verification capability for the decoded header.
	ErrNoVerifier = errors.New("djws: no verifier for header")
)

// Sink misuse errors.
var (
	// ErrWriteAfterFinish is returned when Write or a second Finish is
	// called on a serializer or deserializer that has already finished or
	// failed. Finished sinks are never mutated by such calls.
	ErrWriteAfterFinish = errors.New("djws: write after finish")
)

// Key material errors.
var (
	// ErrInvalidKey is returned when key material is invalid (nil, wrong
	// curve, insufficient size, etc.).
	ErrInvalidKey = errors.New("djws: invalid key material")

	// ErrUnsupportedAlgorithm is returned when a capability constructor is
	// given an algorithm outside its family.
	ErrUnsupportedAlgorithm = errors.New("djws: unsupported algorithm")
)
