package main

import (
	"flag"
	"fmt"
	"io"

	escrowd "github.com/iov-one/weave-swap/cmd/escrowd/app"
	"github.com/iov-one/weave-swap/x/escrow"
)

func cmdOpen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction opening an escrow. The deposit of asset A is moved from
the maker into the escrow vault. The maker must sign the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Address of the maker. Required.")
		seedFl    = fl.Uint64("seed", 0, "Seed distinguishing escrows of the same maker.")
		assetAFl  = flAddress(fl, "asset-a", "", "Asset deposited by the maker. Required.")
		assetBFl  = flAddress(fl, "asset-b", "", "Asset requested from the taker. Required.")
		depositFl = fl.Uint64("deposit", 0, "Amount of asset A to deposit.")
		receiveFl = fl.Uint64("receive", 0, "Amount of asset B the maker expects.")
	)
	fl.Parse(args)

	msg := &escrow.OpenMsg{
		Maker:   *makerFl,
		Seed:    *seedFl,
		AssetA:  *assetAFl,
		AssetB:  *assetBFl,
		Deposit: *depositFl,
		Receive: *receiveFl,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("given data produce an invalid message: %s", err)
	}
	_, err := writeTx(output, escrowd.NewTx(msg))
	return err
}

func cmdFulfill(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction fulfilling an open escrow. The taker pays the requested
amount of asset B to the maker and receives the whole vault. The taker must
sign the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow. Required.")
		takerFl  = flAddress(fl, "taker", "", "Address of the taker. Required.")
	)
	fl.Parse(args)

	msg := &escrow.FulfillMsg{
		Escrow: *escrowFl,
		Taker:  *takerFl,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("given data produce an invalid message: %s", err)
	}
	_, err := writeTx(output, escrowd.NewTx(msg))
	return err
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction cancelling an open escrow. The vault is returned to the
maker, who must sign the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow. Required.")
	)
	fl.Parse(args)

	msg := &escrow.CancelMsg{Escrow: *escrowFl}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("given data produce an invalid message: %s", err)
	}
	_, err := writeTx(output, escrowd.NewTx(msg))
	return err
}

func cmdEscrowAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the address and bump of the escrow that a maker opens with given seed.
The computation is done locally.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Address of the maker. Required.")
		seedFl    = fl.Uint64("seed", 0, "Seed of the escrow.")
		programFl = flAddress(fl, "program", escrow.ProgramID.String(), "Address of the escrow program.")
	)
	fl.Parse(args)

	if len(*makerFl) == 0 {
		flagDie("maker address is required")
	}
	addr, bump, err := escrow.DeriveAuthority(*programFl, *makerFl, *seedFl)
	if err != nil {
		return fmt.Errorf("cannot derive escrow address: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s %d\n", addr, bump)
	return err
}
