package main

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/nigma143/detached-jws/djws"
)

// newSigner builds the signing capability described by the config.
func newSigner(cfg *config) (djws.Signer, error) {
	alg := cfg.algorithm()

	switch cfg.Algorithm {
	case "PS256", "PS384", "PS512":
		key, err := loadPrivateKey[*rsa.PrivateKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewRSAPSSSigner(alg, key)

	case "RS256", "RS384", "RS512":
		key, err := loadPrivateKey[*rsa.PrivateKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewRSASigner(alg, key)

	case "ES256", "ES384", "ES512":
		key, err := loadPrivateKey[*ecdsa.PrivateKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewECDSASigner(alg, key)

	case "EdDSA":
		key, err := loadPrivateKey[ed25519.PrivateKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewEd25519Signer(key)

	case "HS256", "HS384", "HS512":
		secret, err := os.ReadFile(cfg.SecretFile)
		if err != nil {
			return nil, err
		}

		return djws.NewHMACSigner(alg, secret)
	}

	return nil, fmt.Errorf("unsupported algorithm %q", cfg.Algorithm)
}

// newVerifier builds the verification capability described by the config.
func newVerifier(cfg *config) (djws.Verifier, error) {
	alg := cfg.algorithm()

	switch cfg.Algorithm {
	case "PS256", "PS384", "PS512":
		key, err := loadPublicKey[*rsa.PublicKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewRSAPSSVerifier(alg, key)

	case "RS256", "RS384", "RS512":
		key, err := loadPublicKey[*rsa.PublicKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewRSAVerifier(alg, key)

	case "ES256", "ES384", "ES512":
		key, err := loadPublicKey[*ecdsa.PublicKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewECDSAVerifier(alg, key)

	case "EdDSA":
		key, err := loadPublicKey[ed25519.PublicKey](cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		return djws.NewEd25519Verifier(key)

	case "HS256", "HS384", "HS512":
		secret, err := os.ReadFile(cfg.SecretFile)
		if err != nil {
			return nil, err
		}

		return djws.NewHMACVerifier(alg, secret)
	}

	return nil, fmt.Errorf("unsupported algorithm %q", cfg.Algorithm)
}

func loadPrivateKey[K any](path string) (K, error) {
	var zero K

	block, err := readPEM(path)
	if err != nil {
		return zero, err
	}

	key, err := parsePrivateKey(block.Bytes)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	typed, ok := key.(K)
	if !ok {
		return zero, fmt.Errorf("%s: key is %T, want %T", path, key, zero)
	}

	return typed, nil
}

func loadPublicKey[K any](path string) (K, error) {
	var zero K

	block, err := readPEM(path)
	if err != nil {
		return zero, err
	}

	key, err := parsePublicKey(block.Bytes)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	typed, ok := key.(K)
	if !ok {
		return zero, fmt.Errorf("%s: key is %T, want %T", path, key, zero)
	}

	return typed, nil
}

func readPEM(path string) (*pem.Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block found", path)
	}

	return block, nil
}

func parsePrivateKey(der []byte) (any, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}

	return nil, errors.New("unsupported private key encoding")
}

func parsePublicKey(der []byte) (any, error) {
	if key, err := x509.ParsePKIXPublicKey(der); err == nil {
		return key, nil
	}

	if key, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return key, nil
	}

	return nil, errors.New("unsupported public key encoding")
}
