package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	solana "github.com/gagliardetto/solana-go"
)

// ErrMissingKey is returned when no secret key material was supplied.
var ErrMissingKey = errors.New("solana private key not set")

// DecodePrivateKey parses a base58 secret key and checks that its embedded public half matches the seed.
func DecodePrivateKey(b58 string) (solana.PrivateKey, error) {
	b58 = strings.TrimSpace(b58)
	if b58 == "" {
		return nil, ErrMissingKey
	}
	key, err := solana.PrivateKeyFromBase58(b58)
	if err != nil {
		return nil, fmt.Errorf("decode base58: %w", err)
	}
	if err := ValidatePrivateKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ValidatePrivateKey rejects keys of the wrong size or whose public half is not derived from the seed.
func ValidatePrivateKey(key solana.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return fmt.Errorf("invalid key length %d, want %d", len(key), ed25519.PrivateKeySize)
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return errors.New("public key does not match secret seed")
	}
	return nil
}

// ParseMint validates a token mint address.
func ParseMint(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(strings.TrimSpace(s))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid mint %q: %w", s, err)
	}
	return pk, nil
}

// WriteKeyFile stores the raw secret bytes as a JSON integer array, the solana-keygen format.
// An existing file is overwritten.
func WriteKeyFile(path string, key solana.PrivateKey) error {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// ReadKeyFile loads a key written by WriteKeyFile or solana-keygen.
func ReadKeyFile(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if err := ValidatePrivateKey(key); err != nil {
		return nil, err
	}
	return key, nil
}
