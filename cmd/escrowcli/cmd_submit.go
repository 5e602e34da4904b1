package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/client"
	"github.com/iov-one/weave-swap/x/escrow"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it. The
command waits until the transaction is included in a block.

For certain transactions response is written out.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	c := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	res, err := c.BroadcastTxCommit(tx)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	if res.Err != nil {
		return fmt.Errorf("transaction failed: %s", res.Err)
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}
	pretty, err := extractResponse(msg, res.Result.Data)
	if err != nil {
		return fmt.Errorf("cannot extract response: %s", err)
	}
	if pretty != "" {
		_, err = fmt.Fprintln(output, pretty)
	}
	return err
}

// extractResponse returns a human readable representation of the deliver
// result data. Messages without a registered formatter produce no output.
func extractResponse(msg weave.Msg, data []byte) (string, error) {
	format, ok := formatters[msg.Path()]
	if !ok {
		return "", nil
	}
	return format(data)
}

// formatters contains a mapping of a message path to response parser.
var formatters = map[string]func([]byte) (string, error){
	escrow.OpenMsg{}.Path(): fmtAddress,
}

func fmtAddress(raw []byte) (string, error) {
	addr := weave.Address(raw)
	if err := addr.Validate(); err != nil {
		return "", fmt.Errorf("cannot parse address: %s", err)
	}
	return addr.String(), nil
}
