package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nigma143/detached-jws/djws"
)

// headerField is one custom protected-header entry. Fields are a list, not
// a map, because header order is significant for the signed bytes.
type headerField struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// config describes one signing or verification setup.
type config struct {
	// Algorithm is the JWS algorithm name (PS256, ES384, HS512, EdDSA, ...).
	Algorithm string `yaml:"algorithm"`

	// KeyFile is a PEM file: a private key for sign, a public key for
	// verify. Unused by the HMAC algorithms.
	KeyFile string `yaml:"key_file"`

	// SecretFile holds the raw HMAC secret for the HS* algorithms.
	SecretFile string `yaml:"secret_file"`

	// KeyID is placed in the "kid" header field when signing and checked
	// against it when verifying. When empty, sign generates a fresh one.
	KeyID string `yaml:"key_id"`

	// Header lists custom protected-header fields in order.
	Header []headerField `yaml:"header"`
}

func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Algorithm == "" {
		return nil, fmt.Errorf("%s: algorithm is required", path)
	}

	if cfg.KeyFile == "" && cfg.SecretFile == "" {
		return nil, fmt.Errorf("%s: key_file or secret_file is required", path)
	}

	return &cfg, nil
}

func (c *config) algorithm() djws.Algorithm {
	return djws.Algorithm(c.Algorithm)
}

// customHeader builds the custom header fields from the config, with the
// key ID (when set) first.
func (c *config) customHeader(keyID string) *djws.Header {
	h := djws.NewHeader()

	if keyID != "" {
		h.Set("kid", keyID)
	}

	for _, f := range c.Header {
		h.Set(f.Key, f.Value)
	}

	return h
}
