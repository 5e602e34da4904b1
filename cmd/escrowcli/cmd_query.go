package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/client"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
)

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Execute a ABCI query and print JSON encoded result.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
		pathFl = fl.String("path", "", "Path to be queried. Must be one of the supported.")
		dataFl = flAddress(fl, "data", "", "Address the query is about. Its meaning depends on the path.")
	)
	fl.Parse(args)

	conf, ok := queries[*pathFl]
	if !ok {
		paths := make([]string, 0, len(queries))
		for p := range queries {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		return fmt.Errorf("available query paths:\n\t- %s", strings.Join(paths, "\n\t- "))
	}

	c := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	models, err := c.Reader().Models(*pathFl, *dataFl)
	if err != nil {
		return fmt.Errorf("failed to run query: %s", err)
	}
	return printModels(output, conf, models)
}

func printModels(output io.Writer, conf queryConf, models []weave.Model) error {
	result := make([]keyval, 0, len(models))
	for i, m := range models {
		obj := conf.newObj()
		if err := obj.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("failed to unmarshal model %d: %s", i, err)
		}
		result = append(result, keyval{Key: conf.decKey(m.Key), Value: obj})
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

type model interface {
	Unmarshal([]byte) error
}

type keyval struct {
	Key   string
	Value model
}

type queryConf struct {
	// newObj returns a new instance of the model that the result of the
	// ABCI query should be extracted into.
	newObj func() model
	// decKey transforms the database key into human readable form.
	decKey func([]byte) string
}

// queries contains a mapping of query path to that query specifics.
var queries = map[string]queryConf{
	"/escrows": {
		newObj: func() model { return &escrow.Record{} },
		decKey: bucketKey(escrow.BucketName),
	},
	"/escrows/maker": {
		newObj: func() model { return &escrow.Record{} },
		decKey: bucketKey(escrow.BucketName),
	},
	"/holdings/owner": {
		newObj: func() model { return &token.Holding{} },
		decKey: hexKey,
	},
	"/auth": {
		newObj: func() model { return &sigs.UserData{} },
		decKey: bucketKey(sigs.BucketName),
	},
}

// bucketKey strips the bucket prefix and displays the remaining address.
func bucketKey(bucket string) func([]byte) string {
	prefix := bucket + ":"
	return func(key []byte) string {
		if !strings.HasPrefix(string(key), prefix) {
			return fmt.Sprintf("%X", key)
		}
		return weave.Address(key[len(prefix):]).String()
	}
}

func hexKey(key []byte) string {
	return fmt.Sprintf("%X", key)
}
