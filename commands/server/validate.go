package server

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/app"
	"github.com/iov-one/weave-swap/errors"
	"github.com/spf13/cobra"
)

// ValidateGenesisCmd checks that every given genesis file can initialize
// the application state.
func ValidateGenesisCmd(ini weave.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Validate genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis loads each file and runs the initializer against a
// throw away store.
func ValidateGenesis(ini weave.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		doc, err := app.LoadGenesis(path)
		if err != nil {
			return errors.Wrap(err, path)
		}
		if err := app.ValidateGenesis(doc, ini); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}
