package djws

// Algorithm identifies a JWS signing algorithm per RFC 7518 Section 3.1.
//
// The algorithm name only travels in the protected header; the serializer
// and deserializer never interpret it. Interpretation happens in the
// capability constructors (NewRSAPSSSigner and friends) and in
// caller-supplied verifier resolvers.
type Algorithm string

const (
	// AlgorithmPS256 is RSASSA-PSS using SHA-256.
	AlgorithmPS256 Algorithm = "PS256"

	// AlgorithmPS384 is RSASSA-PSS using SHA-384.
	AlgorithmPS384 Algorithm = "PS384"

	// AlgorithmPS512 is RSASSA-PSS using SHA-512.
	AlgorithmPS512 Algorithm = "PS512"

	// AlgorithmRS256 is RSASSA-PKCS1-v1_5 using SHA-256.
	AlgorithmRS256 Algorithm = "RS256"

	// AlgorithmRS384 is RSASSA-PKCS1-v1_5 using SHA-384.
	AlgorithmRS384 Algorithm = "RS384"

	// AlgorithmRS512 is RSASSA-PKCS1-v1_5 using SHA-512.
	AlgorithmRS512 Algorithm = "RS512"

	// AlgorithmES256 is ECDSA using curve P-256 and SHA-256.
	AlgorithmES256 Algorithm = "ES256"

	// AlgorithmES384 is ECDSA using curve P-384 and SHA-384.
	AlgorithmES384 Algorithm = "ES384"

	// AlgorithmES512 is ECDSA using curve P-521 and SHA-512.
	AlgorithmES512 Algorithm = "ES512"

	// AlgorithmHS256 is HMAC using SHA-256.
	AlgorithmHS256 Algorithm = "HS256"

	// AlgorithmHS384 is HMAC using SHA-384.
	AlgorithmHS384 Algorithm = "HS384"

	// AlgorithmHS512 is HMAC using SHA-512.
	AlgorithmHS512 Algorithm = "HS512"

	// AlgorithmEdDSA is the Edwards-Curve Digital Signature Algorithm
	// using curve 25519.
	AlgorithmEdDSA Algorithm = "EdDSA"
)

// String returns the algorithm name as registered in the JSON Web
// Signature and Encryption Algorithms registry.
func (a Algorithm) String() string {
	return string(a)
}
