package djws

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Verifier checks a byte stream against a signature. Payload bytes are fed
// through Write any number of times; Verify consumes the accumulated state
// and compares it against the supplied raw signature bytes, returning nil
// on success and an error on mismatch.
//
// Verifiers are stateful and single-use, like Signers: one Verifier serves
// exactly one deserialize operation. The deserializer calls no further
// methods on the Verifier once Finish has returned.
type Verifier interface {
	io.Writer

	// Verify consumes the accumulated stream state and checks it against
	// signature. A nil return means the signature matches.
	Verify(signature []byte) error
}

// VerifierResolver selects a verification capability for a decoded header,
// typically by inspecting its "alg" and "kid" fields. Returning a nil
// Verifier with a nil error rejects the token with ErrNoVerifier; a
// non-nil error is propagated as-is.
type VerifierResolver func(header *Header) (Verifier, error)

// DeserializeWriter is an io.Writer that verifies a detached JWS as the
// payload bytes are written to it.
//
// Construction parses and validates the token structure, resolves the
// verifier from the decoded header, and feeds the verifier the header
// segment exactly as it appears in the token (never a re-serialization of
// the parsed header, so the verified bytes are identical to what the
// signer consumed) followed by a '.' separator. Finish checks the
// signature and returns the verified header.
type DeserializeWriter struct {
	verifier Verifier
	header   *Header
	sigB64   string
	state    sinkState
}

// NewDeserializeWriter parses token and opens a verifying sink for its
// payload.
//
// It returns ErrMalformedToken when the token does not have exactly three
// dot-separated segments or its payload segment is non-empty (a detached
// JWS never embeds the payload), ErrInvalidSegment when the header segment
// is not valid base64url, ErrInvalidHeader when the decoded header is not
// a JSON object, and ErrNoVerifier when resolve selects no capability.
func NewDeserializeWriter(token string, resolve VerifierResolver) (*DeserializeWriter, error) {
	headerB64, payloadB64, sigB64, err := SplitCompact(token)
	if err != nil {
		return nil, err
	}

	if payloadB64 != "" {
		return nil, fmt.Errorf("%w: payload segment must be empty", ErrMalformedToken)
	}

	headerJSON, err := DecodeSegment(headerB64)
	if err != nil {
		return nil, err
	}

	header := NewHeader()
	if err := json.Unmarshal(headerJSON, header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	verifier, err := resolve(header)
	if err != nil {
		return nil, err
	}

	if verifier == nil {
		return nil, ErrNoVerifier
	}

	if _, err := io.WriteString(verifier, headerB64); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	if _, err := verifier.Write(dot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	return &DeserializeWriter{
		verifier: verifier,
		header:   header,
		sigB64:   sigB64,
		state:    stateOpen,
	}, nil
}

// Write feeds payload bytes to the verifier. It returns
// ErrWriteAfterFinish once the writer has finished or failed.
func (w *DeserializeWriter) Write(p []byte) (int, error) {
	if w.state != stateOpen {
		return 0, ErrWriteAfterFinish
	}

	if _, err := w.verifier.Write(p); err != nil {
		w.state = stateFailed

		return 0, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	return len(p), nil
}

// Finish decodes the signature segment, checks it against the accumulated
// stream, and returns the verified header. It returns ErrInvalidSegment
// when the signature segment is not valid base64url and ErrVerification
// when the signature does not match. The writer transitions to its
// terminal state either way; any later Write or Finish returns
// ErrWriteAfterFinish.
func (w *DeserializeWriter) Finish() (*Header, error) {
	if w.state != stateOpen {
		return nil, ErrWriteAfterFinish
	}

	signature, err := DecodeSegment(w.sigB64)
	if err != nil {
		w.state = stateFailed

		return nil, err
	}

	if err := w.verifier.Verify(signature); err != nil {
		w.state = stateFailed

		if errors.Is(err, ErrVerification) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	w.state = stateFinished

	return w.header, nil
}

// Deserialize verifies token against the whole payload stream using a
// fixed verifier and returns the verified header. The payload must supply
// exactly the bytes that were originally signed.
func Deserialize(token string, payload io.Reader, verifier Verifier) (*Header, error) {
	return DeserializeWithResolver(token, payload, func(*Header) (Verifier, error) {
		return verifier, nil
	})
}

// DeserializeWithResolver verifies token against the whole payload stream,
// selecting the verifier from the decoded header, and returns the verified
// header. It reads payload to exhaustion in bounded chunks through a
// DeserializeWriter; use the writer directly when payload bytes arrive
// incrementally.
func DeserializeWithResolver(token string, payload io.Reader, resolve VerifierResolver) (*Header, error) {
	w, err := NewDeserializeWriter(token, resolve)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(w, payload); err != nil {
		return nil, err
	}

	return w.Finish()
}
