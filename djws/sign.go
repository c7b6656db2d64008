package djws

import (
	"encoding/json"
	"fmt"
	"io"
)

// dot is the segment separator of the compact serialization. It is fed to
// the capabilities between the header segment and the payload.
var dot = []byte{'.'}

// sinkState tags the lifecycle of a streaming sink. Sinks accept payload
// bytes only while open; once finished or failed they reject every further
// operation with ErrWriteAfterFinish.
type sinkState uint8

const (
	stateOpen sinkState = iota
	stateFinished
	stateFailed
)

// Signer produces a signature over a byte stream. Payload bytes are fed
// through Write any number of times; Sign consumes the accumulated state
// and returns the raw signature bytes. An empty stream is valid input.
//
// Signers are stateful and single-use: one Signer serves exactly one
// serialize operation and must not be reused without caller-side reset.
// The serializer guarantees it calls no further methods on the Signer once
// Finish has returned.
type Signer interface {
	io.Writer

	// Sign consumes the accumulated stream state and returns the raw
	// signature bytes.
	Sign() ([]byte, error)
}

// SerializeWriter is an io.Writer that produces a detached JWS from
// payload bytes written to it.
//
// On construction it feeds the signer the base64url header segment
// followed by a '.' separator, establishing the signing input convention
//
//	ASCII(base64url(header)) || '.' || payload
//
// Every subsequent Write feeds the signer and, when an underlying sink was
// supplied, forwards the same bytes to it unchanged, so the writer can be
// dropped into an existing output pipeline. Finish produces the compact
// token.
type SerializeWriter struct {
	signer    Signer
	out       io.Writer
	headerB64 string
	state     sinkState
}

// NewSerializeWriter builds the protected header from algorithm and the
// optional custom header (which is never mutated), encodes it, and opens a
// serializing sink around signer.
//
// out is optional. When non-nil it receives the exact signing input: the
// header segment and '.' separator immediately, then every payload chunk
// as it is written. Pass nil when only the token is needed.
func NewSerializeWriter(out io.Writer, algorithm Algorithm, header *Header, signer Signer) (*SerializeWriter, error) {
	// json.Marshal compacts the Marshaler output, so the segment carries
	// no insignificant whitespace.
	headerJSON, err := json.Marshal(buildHeader(header, algorithm))
	if err != nil {
		return nil, fmt.Errorf("djws: marshal header: %w", err)
	}

	headerB64 := EncodeSegment(headerJSON)

	if _, err := io.WriteString(signer, headerB64); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	if _, err := signer.Write(dot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	if out != nil {
		if _, err := io.WriteString(out, headerB64+"."); err != nil {
			return nil, err
		}
	}

	return &SerializeWriter{
		signer:    signer,
		out:       out,
		headerB64: headerB64,
		state:     stateOpen,
	}, nil
}

// Write feeds payload bytes to the signer and forwards them unchanged to
// the underlying sink, when one was supplied. It returns
// ErrWriteAfterFinish once the writer has finished or failed.
func (w *SerializeWriter) Write(p []byte) (int, error) {
	if w.state != stateOpen {
		return 0, ErrWriteAfterFinish
	}

	if _, err := w.signer.Write(p); err != nil {
		w.state = stateFailed

		return 0, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	if w.out != nil {
		if _, err := w.out.Write(p); err != nil {
			w.state = stateFailed

			return 0, err
		}
	}

	return len(p), nil
}

// Finish finalizes the signature and returns the compact detached token
//
//	base64url(header) || ".." || base64url(signature)
//
// The writer transitions to its terminal state: a failed signing operation
// is not retryable, and any later Write or Finish returns
// ErrWriteAfterFinish.
func (w *SerializeWriter) Finish() (string, error) {
	if w.state != stateOpen {
		return "", ErrWriteAfterFinish
	}

	signature, err := w.signer.Sign()
	if err != nil {
		w.state = stateFailed

		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}

	w.state = stateFinished

	return AssembleCompact(w.headerB64, EncodeSegment(signature)), nil
}

// Serialize signs the whole payload stream and returns the compact
// detached token. It reads payload to exhaustion in bounded chunks through
// a SerializeWriter; use the writer directly when payload bytes arrive
// incrementally.
func Serialize(algorithm Algorithm, header *Header, payload io.Reader, signer Signer) (string, error) {
	w, err := NewSerializeWriter(nil, algorithm, header, signer)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(w, payload); err != nil {
		return "", err
	}

	return w.Finish()
}
