package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/weave-swap/client"
	"github.com/iov-one/weave-swap/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain id and the signer nonce are fetched from the node unless provided.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
		chainFl = fl.String("chain", "", "Chain id. Fetched from the node when empty.")
		nonceFl = fl.Int64("nonce", -1, "Nonce of the signer. Fetched from the node when negative.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	chainID, nonce := *chainFl, *nonceFl
	if chainID == "" || nonce < 0 {
		c := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
		if chainID == "" {
			if chainID, err = c.ChainID(context.Background()); err != nil {
				return fmt.Errorf("cannot fetch chain id: %s", err)
			}
		}
		if nonce < 0 {
			if nonce, err = c.Reader().Nonce(key.PublicKey().Address()); err != nil {
				return fmt.Errorf("cannot get the next sequence number: %s", err)
			}
		}
	}
	if chainID == "" {
		return errors.New("chain id is required")
	}

	sig, err := sigs.SignTx(key, tx, chainID, nonce)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}
