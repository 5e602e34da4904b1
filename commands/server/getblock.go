package server

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-swap/errors"
	"github.com/spf13/cobra"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const flagHeight = "height"

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

// GetBlockCmd extracts a block from a blockstore.db and outputs as json
// It takes the last block unless --height is explicitly specified
func GetBlockCmd() *cobra.Command {
	var height int64
	cmd := &cobra.Command{
		Use:   "getblock <path to blockstore.db>",
		Short: "Print a block from the tendermint block store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb(args[0])
			if err != nil {
				return err
			}
			defer db.Close()
			return printBlock(cmd.OutOrStdout(), blockchain.NewBlockStore(db), height)
		},
	}
	cmd.Flags().Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	return cmd
}

func openDb(dir string) (dbm.DB, error) {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, ".db") {
		return nil, errors.Wrap(errors.ErrInput, "database directory must end with .db")
	}
	dir = strings.TrimSuffix(dir, ".db")
	db, err := dbm.NewGoLevelDB(filepath.Base(dir), filepath.Dir(dir))
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	return db, nil
}

func printBlock(w io.Writer, store *blockchain.BlockStore, height int64) error {
	if height == 0 {
		height = store.Height()
	}
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(js))
	return err
}
