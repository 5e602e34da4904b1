package main

import (
	"flag"
	"fmt"
	"io"

	escrowd "github.com/iov-one/weave-swap/cmd/escrowd/app"
	"github.com/iov-one/weave-swap/x/token"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for transferring an asset between two accounts. The
source account must sign the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "", "Source account address. Required.")
		dstFl    = flAddress(fl, "dst", "", "Destination account address. Required.")
		assetFl  = flAddress(fl, "asset", "", "Asset to transfer. Required.")
		amountFl = fl.Uint64("amount", 0, "Amount to transfer.")
		memoFl   = fl.String("memo", "", "A short message attached to the transfer.")
	)
	fl.Parse(args)

	msg := &token.SendMsg{
		Source:      *srcFl,
		Destination: *dstFl,
		Asset:       *assetFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("given data produce an invalid message: %s", err)
	}
	_, err := writeTx(output, escrowd.NewTx(msg))
	return err
}
