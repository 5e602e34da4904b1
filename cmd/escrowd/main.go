package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-swap"
	escrowd "github.com/iov-one/weave-swap/cmd/escrowd/app"
	"github.com/iov-one/weave-swap/commands"
	"github.com/iov-one/weave-swap/commands/server"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const flagLogLevel = "log_level"

func main() {
	root := rootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", escrowd.Name)
	// Level filtering is applied once flags are parsed.
	filtered := &levelLogger{Logger: logger}

	root := &cobra.Command{
		Use:           escrowd.Name,
		Short:         "Two party asset swap escrow node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opt, err := log.AllowLevel(viper.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			filtered.Logger = log.NewFilter(logger, opt)
			return nil
		},
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	root.PersistentFlags().String(server.FlagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "one of debug, info, error or none")
	_ = viper.BindPFlags(root.PersistentFlags())
	viper.SetEnvPrefix("ESCROWD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(
		server.InitCmd(escrowd.GenInitOptions, filtered, escrow.SearchableTags...),
		server.StartCmd(generateApp, filtered),
		server.ValidateGenesisCmd(escrowd.Initializers()),
		server.GetBlockCmd(),
		testGenCmd(),
		versionCmd(),
	)
	return root
}

func generateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	return escrowd.GenerateApp(home, logger, debug, reg)
}

func testGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testgen [outdir]",
		Short: "Write example encodings for client tests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outdir := "testdata"
			if len(args) > 0 {
				outdir = args[0]
			}
			examples, err := escrowd.Examples()
			if err != nil {
				return err
			}
			return commands.TestGen(escrowd.Codec(), examples, outdir)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), weave.Version())
		},
	}
}

// levelLogger lets the commands hold a logger before the level flag is
// known.
type levelLogger struct {
	log.Logger
}

func (l *levelLogger) Debug(msg string, keyvals ...interface{}) { l.Logger.Debug(msg, keyvals...) }
func (l *levelLogger) Info(msg string, keyvals ...interface{})  { l.Logger.Info(msg, keyvals...) }
func (l *levelLogger) Error(msg string, keyvals ...interface{}) { l.Logger.Error(msg, keyvals...) }
func (l *levelLogger) With(keyvals ...interface{}) log.Logger {
	return &levelLogger{Logger: l.Logger.With(keyvals...)}
}
