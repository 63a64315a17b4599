package solana

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

func TestDecodePrivateKey(t *testing.T) {
	wallet := solana.NewWallet()

	key, err := DecodePrivateKey(wallet.PrivateKey.String())
	if err != nil {
		t.Fatalf("expected key, got error: %v", err)
	}
	if !key.PublicKey().Equals(wallet.PublicKey()) {
		t.Fatalf("expected public key %s, got %s", wallet.PublicKey(), key.PublicKey())
	}
}

func TestDecodePrivateKeyMissing(t *testing.T) {
	if _, err := DecodePrivateKey("   "); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestDecodePrivateKeyMalformed(t *testing.T) {
	wallet := solana.NewWallet()
	tampered := make([]byte, len(wallet.PrivateKey))
	copy(tampered, wallet.PrivateKey)
	tampered[40] ^= 0xff

	cases := map[string]string{
		"not base58":   "0OIl-not-base58",
		"short":        base58.Encode([]byte{1, 2, 3, 4}),
		"public only":  wallet.PublicKey().String(),
		"tampered pub": base58.Encode(tampered),
	}
	for name, input := range cases {
		if _, err := DecodePrivateKey(input); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseMint(t *testing.T) {
	if _, err := ParseMint("So11111111111111111111111111111111111111112"); err != nil {
		t.Fatalf("expected wrapped SOL mint to parse: %v", err)
	}
	if _, err := ParseMint("nope"); err == nil {
		t.Fatalf("expected invalid mint error")
	}
}

func TestKeyFileRoundTrip(t *testing.T) {
	wallet := solana.NewWallet()
	path := filepath.Join(t.TempDir(), "wallet.json")

	if err := WriteKeyFile(path, wallet.PrivateKey); err != nil {
		t.Fatalf("WriteKeyFile error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read key file: %v", err)
	}
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		t.Fatalf("key file is not an integer array: %v", err)
	}
	if len(ints) != 64 {
		t.Fatalf("expected 64 entries, got %d", len(ints))
	}

	key, err := ReadKeyFile(path)
	if err != nil {
		t.Fatalf("ReadKeyFile error: %v", err)
	}
	if !key.PublicKey().Equals(wallet.PublicKey()) {
		t.Fatalf("round-tripped key mismatch")
	}
}
