package djws

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"hash"
	"math/big"

	// Digest implementations for the crypto.Hash values used below.
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// Minimum RSA key size in bits.
const minRSAKeyBits = 2048

func rsaPSSHash(alg Algorithm) (crypto.Hash, error) {
	switch alg {
	case AlgorithmPS256:
		return crypto.SHA256, nil
	case AlgorithmPS384:
		return crypto.SHA384, nil
	case AlgorithmPS512:
		return crypto.SHA512, nil
	}

	return 0, fmt.Errorf("%w: %s is not an RSASSA-PSS algorithm", ErrUnsupportedAlgorithm, alg)
}

func rsaV15Hash(alg Algorithm) (crypto.Hash, error) {
	switch alg {
	case AlgorithmRS256:
		return crypto.SHA256, nil
	case AlgorithmRS384:
		return crypto.SHA384, nil
	case AlgorithmRS512:
		return crypto.SHA512, nil
	}

	return 0, fmt.Errorf("%w: %s is not an RSASSA-PKCS1-v1_5 algorithm", ErrUnsupportedAlgorithm, alg)
}

func ecdsaParams(alg Algorithm) (crypto.Hash, elliptic.Curve, int, error) {
	switch alg {
	case AlgorithmES256:
		return crypto.SHA256, elliptic.P256(), 32, nil
	case AlgorithmES384:
		return crypto.SHA384, elliptic.P384(), 48, nil
	case AlgorithmES512:
		return crypto.SHA512, elliptic.P521(), 66, nil
	}

	return 0, nil, 0, fmt.Errorf("%w: %s is not an ECDSA algorithm", ErrUnsupportedAlgorithm, alg)
}

func hmacHash(alg Algorithm) (crypto.Hash, error) {
	switch alg {
	case AlgorithmHS256:
		return crypto.SHA256, nil
	case AlgorithmHS384:
		return crypto.SHA384, nil
	case AlgorithmHS512:
		return crypto.SHA512, nil
	}

	return 0, fmt.Errorf("%w: %s is not an HMAC algorithm", ErrUnsupportedAlgorithm, alg)
}

func validateRSAPrivate(key *rsa.PrivateKey) error {
	if key == nil {
		return fmt.Errorf("%w: rsa private key must not be nil", ErrInvalidKey)
	}

	if key.N.BitLen() < minRSAKeyBits {
		return fmt.Errorf("%w: rsa key must be at least %d bits", ErrInvalidKey, minRSAKeyBits)
	}

	return nil
}

func validateRSAPublic(key *rsa.PublicKey) error {
	if key == nil {
		return fmt.Errorf("%w: rsa public key must not be nil", ErrInvalidKey)
	}

	if key.N.BitLen() < minRSAKeyBits {
		return fmt.Errorf("%w: rsa key must be at least %d bits", ErrInvalidKey, minRSAKeyBits)
	}

	return nil
}

// --- RSASSA-PSS (PS256, PS384, PS512) ---

type rsaPSSSigner struct {
	key    *rsa.PrivateKey
	hash   crypto.Hash
	digest hash.Hash
}

// NewRSAPSSSigner creates a single-use Signer for PS256, PS384 or PS512.
func NewRSAPSSSigner(alg Algorithm, key *rsa.PrivateKey) (Signer, error) {
	h, err := rsaPSSHash(alg)
	if err != nil {
		return nil, err
	}

	if err := validateRSAPrivate(key); err != nil {
		return nil, err
	}

	return &rsaPSSSigner{key: key, hash: h, digest: h.New()}, nil
}

func (s *rsaPSSSigner) Write(p []byte) (int, error) {
	return s.digest.Write(p)
}

func (s *rsaPSSSigner) Sign() ([]byte, error) {
	return rsa.SignPSS(rand.Reader, s.key, s.hash, s.digest.Sum(nil), &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       s.hash,
	})
}

type rsaPSSVerifier struct {
	key    *rsa.PublicKey
	hash   crypto.Hash
	digest hash.Hash
}

// NewRSAPSSVerifier creates a single-use Verifier for PS256, PS384 or PS512.
func NewRSAPSSVerifier(alg Algorithm, key *rsa.PublicKey) (Verifier, error) {
	h, err := rsaPSSHash(alg)
	if err != nil {
		return nil, err
	}

	if err := validateRSAPublic(key); err != nil {
		return nil, err
	}

	return &rsaPSSVerifier{key: key, hash: h, digest: h.New()}, nil
}

func (v *rsaPSSVerifier) Write(p []byte) (int, error) {
	return v.digest.Write(p)
}

func (v *rsaPSSVerifier) Verify(signature []byte) error {
	err := rsa.VerifyPSS(v.key, v.hash, v.digest.Sum(nil), signature, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       v.hash,
	})
	if err != nil {
		return ErrVerification
	}

	return nil
}

// --- RSASSA-PKCS1-v1_5 (RS256, RS384, RS512) ---

type rsaV15Signer struct {
	key    *rsa.PrivateKey
	hash   crypto.Hash
	digest hash.Hash
}

// NewRSASigner creates a single-use Signer for RS256, RS384 or RS512.
func NewRSASigner(alg Algorithm, key *rsa.PrivateKey) (Signer, error) {
	h, err := rsaV15Hash(alg)
	if err != nil {
		return nil, err
	}

	if err := validateRSAPrivate(key); err != nil {
		return nil, err
	}

	return &rsaV15Signer{key: key, hash: h, digest: h.New()}, nil
}

func (s *rsaV15Signer) Write(p []byte) (int, error) {
	return s.digest.Write(p)
}

func (s *rsaV15Signer) Sign() ([]byte, error) {
	return rsa.SignPKCS1v15(rand.Reader, s.key, s.hash, s.digest.Sum(nil))
}

type rsaV15Verifier struct {
	key    *rsa.PublicKey
	hash   crypto.Hash
	digest hash.Hash
}

// NewRSAVerifier creates a single-use Verifier for RS256, RS384 or RS512.
func NewRSAVerifier(alg Algorithm, key *rsa.PublicKey) (Verifier, error) {
	h, err := rsaV15Hash(alg)
	if err != nil {
		return nil, err
	}

	if err := validateRSAPublic(key); err != nil {
		return nil, err
	}

	return &rsaV15Verifier{key: key, hash: h, digest: h.New()}, nil
}

func (v *rsaV15Verifier) Write(p []byte) (int, error) {
	return v.digest.Write(p)
}

func (v *rsaV15Verifier) Verify(signature []byte) error {
	if err := rsa.VerifyPKCS1v15(v.key, v.hash, v.digest.Sum(nil), signature); err != nil {
		return ErrVerification
	}

	return nil
}

// --- ECDSA (ES256, ES384, ES512) ---

type ecdsaSigner struct {
	key           *ecdsa.PrivateKey
	digest        hash.Hash
	componentSize int
}

// NewECDSASigner creates a single-use Signer for ES256, ES384 or ES512.
// Signatures use the JOSE encoding: fixed-width big-endian R and S
// concatenated, not ASN.1.
func NewECDSASigner(alg Algorithm, key *ecdsa.PrivateKey) (Signer, error) {
	h, curve, size, err := ecdsaParams(alg)
	if err != nil {
		return nil, err
	}

	if key == nil {
		return nil, fmt.Errorf("%w: ecdsa private key must not be nil", ErrInvalidKey)
	}

	if key.Curve != curve {
		return nil, fmt.Errorf("%w: key curve must be %s", ErrInvalidKey, curve.Params().Name)
	}

	return &ecdsaSigner{key: key, digest: h.New(), componentSize: size}, nil
}

func (s *ecdsaSigner) Write(p []byte) (int, error) {
	return s.digest.Write(p)
}

func (s *ecdsaSigner) Sign() ([]byte, error) {
	r, sv, err := ecdsa.Sign(rand.Reader, s.key, s.digest.Sum(nil))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 2*s.componentSize)
	r.FillBytes(out[:s.componentSize])
	sv.FillBytes(out[s.componentSize:])

	return out, nil
}

type ecdsaVerifier struct {
	key           *ecdsa.PublicKey
	digest        hash.Hash
	componentSize int
}

// NewECDSAVerifier creates a single-use Verifier for ES256, ES384 or ES512.
func NewECDSAVerifier(alg Algorithm, key *ecdsa.PublicKey) (Verifier, error) {
	h, curve, size, err := ecdsaParams(alg)
	if err != nil {
		return nil, err
	}

	if key == nil {
		return nil, fmt.Errorf("%w: ecdsa public key must not be nil", ErrInvalidKey)
	}

	if key.Curve != curve {
		return nil, fmt.Errorf("%w: key curve must be %s", ErrInvalidKey, curve.Params().Name)
	}

	return &ecdsaVerifier{key: key, digest: h.New(), componentSize: size}, nil
}

func (v *ecdsaVerifier) Write(p []byte) (int, error) {
	return v.digest.Write(p)
}

func (v *ecdsaVerifier) Verify(signature []byte) error {
	if len(signature) != 2*v.componentSize {
		return ErrVerification
	}

	r := new(big.Int).SetBytes(signature[:v.componentSize])
	s := new(big.Int).SetBytes(signature[v.componentSize:])

	if !ecdsa.Verify(v.key, v.digest.Sum(nil), r, s) {
		return ErrVerification
	}

	return nil
}

// --- HMAC (HS256, HS384, HS512) ---

type hmacSigner struct {
	mac hash.Hash
}

// NewHMACSigner creates a single-use Signer for HS256, HS384 or HS512.
// The key must be at least as long as the hash output.
func NewHMACSigner(alg Algorithm, key []byte) (Signer, error) {
	mac, err := newHMAC(alg, key)
	if err != nil {
		return nil, err
	}

	return &hmacSigner{mac: mac}, nil
}

func (s *hmacSigner) Write(p []byte) (int, error) {
	return s.mac.Write(p)
}

func (s *hmacSigner) Sign() ([]byte, error) {
	return s.mac.Sum(nil), nil
}

type hmacVerifier struct {
	mac hash.Hash
}

// NewHMACVerifier creates a single-use Verifier for HS256, HS384 or HS512.
func NewHMACVerifier(alg Algorithm, key []byte) (Verifier, error) {
	mac, err := newHMAC(alg, key)
	if err != nil {
		return nil, err
	}

	return &hmacVerifier{mac: mac}, nil
}

func (v *hmacVerifier) Write(p []byte) (int, error) {
	return v.mac.Write(p)
}

func (v *hmacVerifier) Verify(signature []byte) error {
	if !hmac.Equal(v.mac.Sum(nil), signature) {
		return ErrVerification
	}

	return nil
}

func newHMAC(alg Algorithm, key []byte) (hash.Hash, error) {
	h, err := hmacHash(alg)
	if err != nil {
		return nil, err
	}

	if len(key) < h.Size() {
		return nil, fmt.Errorf("%w: hmac key must be at least %d bytes", ErrInvalidKey, h.Size())
	}

	return hmac.New(h.New, key), nil
}

// --- EdDSA (Ed25519) ---

// Ed25519 signs the whole message rather than a digest, so both
// capabilities buffer the stream until finalization.

type ed25519Signer struct {
	key ed25519.PrivateKey
	buf bytes.Buffer
}

// NewEd25519Signer creates a single-use Signer for EdDSA.
func NewEd25519Signer(key ed25519.PrivateKey) (Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", ErrInvalidKey, ed25519.PrivateKeySize)
	}

	return &ed25519Signer{key: key}, nil
}

func (s *ed25519Signer) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *ed25519Signer) Sign() ([]byte, error) {
	return ed25519.Sign(s.key, s.buf.Bytes()), nil
}

type ed25519Verifier struct {
	key ed25519.PublicKey
	buf bytes.Buffer
}

// NewEd25519Verifier creates a single-use Verifier for EdDSA.
func NewEd25519Verifier(key ed25519.PublicKey) (Verifier, error) {
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes", ErrInvalidKey, ed25519.PublicKeySize)
	}

	return &ed25519Verifier{key: key}, nil
}

func (v *ed25519Verifier) Write(p []byte) (int, error) {
	return v.buf.Write(p)
}

func (v *ed25519Verifier) Verify(signature []byte) error {
	if !ed25519.Verify(v.key, v.buf.Bytes(), signature) {
		return ErrVerification
	}

	return nil
}
