// Package djws serializes and verifies detached JSON Web Signatures: a
// compact JWS token whose payload segment is empty, with the payload
// supplied and checked out of band.
//
// A detached token has the shape
//
//	base64url(header) "." "" "." base64url(signature)
//
// The signing input is ASCII(base64url(header)) || '.' || payload, with the
// payload bytes fed in raw (the protected header carries a "detached": true
// marker alongside "alg"). All base64 uses the unpadded URL-safe alphabet.
//
// # Signing
//
// Serialize signs a whole payload stream in one call:
//
//	signer, err := djws.NewRSAPSSSigner(djws.AlgorithmPS256, privateKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	header := djws.NewHeader()
//	header.Set("custom", "custom_value")
//
//	token, err := djws.Serialize(djws.AlgorithmPS256, header, payloadReader, signer)
//
// When payload bytes arrive incrementally, use SerializeWriter, which is a
// plain io.Writer:
//
//	w, err := djws.NewSerializeWriter(nil, djws.AlgorithmPS256, header, signer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	w.Write([]byte{0, 1, 2, 3})
//	w.Write([]byte{4, 5, 6})
//
//	token, err := w.Finish()
//
// The first argument of NewSerializeWriter is an optional underlying sink.
// When non-nil it receives the exact signing input (header segment, dot
// separator, then every payload chunk unchanged), so the writer can sit
// inside an existing output pipeline.
//
// # Verifying
//
// Deserialize checks a token against the payload bytes the caller believes
// were signed:
//
//	verifier, err := djws.NewRSAPSSVerifier(djws.AlgorithmPS256, publicKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	header, err := djws.Deserialize(token, payloadReader, verifier)
//
// DeserializeWithResolver and DeserializeWriter select the verifier
// dynamically from the decoded header, which allows key and algorithm
// dispatch on fields such as "alg" and "kid":
//
//	resolve := func(h *djws.Header) (djws.Verifier, error) {
//	    if h.Algorithm() != djws.AlgorithmPS256 {
//	        return nil, nil // rejected with djws.ErrNoVerifier
//	    }
//	    return verifier, nil
//	}
//
//	w, err := djws.NewDeserializeWriter(token, resolve)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	w.Write([]byte{0, 1, 2, 3})
//	w.Write([]byte{4, 5, 6})
//
//	header, err := w.Finish()
//
// # Capabilities
//
// Signer and Verifier are small streaming interfaces (io.Writer plus one
// finalize method), so any cryptographic backend can be plugged in. The
// package ships implementations over the standard library for PS256/384/512,
// RS256/384/512, ES256/384/512, HS256/384/512 and EdDSA.
//
// Capabilities are stateful and single-use: construct one per serialize or
// deserialize operation. The sinks guarantee the capability is not touched
// again once Finish returns, on success or failure.
//
// # Headers
//
// Header preserves key insertion order through JSON serialization, and the
// verifier always consumes the header segment text exactly as it appears in
// the token, never a re-serialization of the parsed map, so signer and
// verifier compute over byte-identical input. The reserved "alg" and
// "detached" fields are set by the serializer and overwrite caller-supplied
// values for those keys.
package djws
