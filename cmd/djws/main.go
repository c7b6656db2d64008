// Command djws signs and verifies detached JSON Web Signatures over file
// or stdin payloads. The payload is streamed; it is never loaded into
// memory as a whole.
//
// Usage:
//
//	djws sign -config config.yaml -in payload.bin
//	djws verify -config config.yaml -in payload.bin -token <jws>
//
// Config file format (YAML):
//
//	algorithm: PS256
//	key_file: key.pem        # private key for sign, public key for verify
//	secret_file: secret.bin  # instead of key_file for HS256/HS384/HS512
//	key_id: billing-2026     # optional; sign generates a UUID when empty
//	header:                  # optional custom protected-header fields
//	  - key: custom
//	    value: custom_value
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/nigma143/detached-jws/djws"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("djws: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error

	switch os.Args[1] {
	case "sign":
		err = runSign(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: djws <sign|verify> [flags]")
}

func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	configPath := fs.String("config", "djws.yaml", "YAML config file")
	in := fs.String("in", "-", "payload file, or - for stdin")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	signer, err := newSigner(cfg)
	if err != nil {
		return err
	}

	keyID := cfg.KeyID
	if keyID == "" {
		keyID = uuid.NewString()
	}

	payload, err := openPayload(*in)
	if err != nil {
		return err
	}
	defer payload.Close()

	token, err := djws.Serialize(cfg.algorithm(), cfg.customHeader(keyID), payload, signer)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	configPath := fs.String("config", "djws.yaml", "YAML config file")
	in := fs.String("in", "-", "payload file, or - for stdin")
	token := fs.String("token", "", "detached JWS token")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		return errors.New("verify: -token is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	payload, err := openPayload(*in)
	if err != nil {
		return err
	}
	defer payload.Close()

	header, err := djws.DeserializeWithResolver(*token, payload, func(h *djws.Header) (djws.Verifier, error) {
		if h.Algorithm() != cfg.algorithm() {
			return nil, nil
		}

		if cfg.KeyID != "" {
			kid, _ := h.GetString("kid")
			if kid != cfg.KeyID {
				return nil, nil
			}
		}

		return newVerifier(cfg)
	})
	if err != nil {
		return err
	}

	out, err := json.Marshal(header)
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func openPayload(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}
