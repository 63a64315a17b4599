// Package walletgen creates a fresh devnet keypair, prints it and saves the secret to disk.
package walletgen

import (
	"fmt"
	"io"
	"strings"

	solana "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	dex "solagent-go/internal/dex/solana"
	"solagent-go/internal/metrics"
)

var rule = strings.Repeat("=", 50)

// Generated describes the keypair written by Generate.
type Generated struct {
	PublicKey    solana.PublicKey
	PrivateKey   solana.PrivateKey
	SecretBase58 string
	Path         string
}

// Generate creates a keypair, prints the banner to w and writes the secret bytes to path,
// replacing any existing file.
func Generate(w io.Writer, path string) (*Generated, error) {
	wallet := solana.NewWallet()
	gen := &Generated{
		PublicKey:    wallet.PublicKey(),
		PrivateKey:   wallet.PrivateKey,
		SecretBase58: base58.Encode(wallet.PrivateKey),
		Path:         path,
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "NEW DEVNET WALLET GENERATED")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Public Key:", gen.PublicKey)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Private Key (Base58):")
	fmt.Fprintln(w, gen.SecretBase58)
	fmt.Fprintln(w, rule)

	if err := dex.WriteKeyFile(path, wallet.PrivateKey); err != nil {
		return nil, err
	}
	metrics.WalletsGenerated.Inc()

	fmt.Fprintf(w, "Wallet saved to %s\n", path)
	fmt.Fprintln(w, "\nCopy the Private Key above to your .env file")
	return gen, nil
}
