package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/iov-one/weave-swap/client"
)

func cmdHistory(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the transitions of an escrow, or follow the escrows of a maker as
their transactions are committed. One line is printed per event:

	<height> <action> <escrow> <maker> [<taker>]
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
		escrowFl  = flAddress(fl, "escrow", "", "Escrow address to print the history of.")
		makerFl   = flAddress(fl, "maker", "", "Follow new events of all escrows of this maker.")
		timeoutFl = fl.Duration("timeout", 10*time.Second, "Maximum time for the history search.")
	)
	fl.Parse(args)

	c := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	switch {
	case len(*escrowFl) != 0:
		ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
		defer cancel()
		events, err := c.History(ctx, *escrowFl)
		if err != nil {
			return fmt.Errorf("cannot search history: %s", err)
		}
		for _, ev := range events {
			if err := printEvent(output, ev); err != nil {
				return err
			}
		}
		return nil
	case len(*makerFl) != 0:
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		go func() {
			<-stop
			cancel()
		}()

		events := make(chan client.Event, 8)
		if err := c.WatchMaker(ctx, *makerFl, events); err != nil {
			return fmt.Errorf("cannot subscribe: %s", err)
		}
		for ev := range events {
			if err := printEvent(output, ev); err != nil {
				return err
			}
		}
		return nil
	default:
		flagDie("either -escrow or -maker is required")
		return nil
	}
}

func printEvent(w io.Writer, ev client.Event) error {
	var err error
	if len(ev.Taker) == 0 {
		_, err = fmt.Fprintf(w, "%d %s %s %s\n", ev.Height, ev.Action, ev.Escrow, ev.Maker)
	} else {
		_, err = fmt.Fprintf(w, "%d %s %s %s %s\n", ev.Height, ev.Action, ev.Escrow, ev.Maker, ev.Taker)
	}
	return err
}
