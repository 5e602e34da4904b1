package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-swap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

const (
	// FlagHome is the directory holding both tendermint and application data.
	FlagHome    = "home"
	appStateKey = "app_state"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for tendermint,
// along with proper app_state.
// The application can pass in a function to generate
// proper options. A freshly written node configuration indexes
// the given result tags, so transactions can be searched by them.
func InitCmd(gen GenOptions, logger log.Logger, indexTags ...string) *cobra.Command {
	c := initCmd{
		gen:       gen,
		logger:    logger,
		indexTags: indexTags,
	}
	return &cobra.Command{
		Use:   "init [asset] [owner]",
		Short: "Initialize tendermint and genesis files",
		Args:  cobra.MaximumNArgs(2),
		RunE:  c.run,
	}
}

type initCmd struct {
	gen       GenOptions
	logger    log.Logger
	indexTags []string
}

func (c initCmd) run(cmd *cobra.Command, args []string) error {
	home := viper.GetString(FlagHome)
	config := cfg.DefaultConfig()
	config.SetRoot(home)

	configFile := filepath.Join(home, "config", "config.toml")
	fresh := !fileExists(configFile)
	cfg.EnsureRoot(home)
	if fresh && len(c.indexTags) != 0 {
		config.TxIndex.IndexTags = strings.Join(c.indexTags, ",")
		cfg.WriteConfigFile(configFile, config)
		c.logger.Info("Indexing result tags", "tags", config.TxIndex.IndexTags)
	}

	if err := c.initTendermintFiles(config); err != nil {
		return err
	}

	// no app_state, leave like tendermint
	if c.gen == nil {
		return nil
	}
	options, err := c.gen(args)
	if err != nil {
		return errors.Wrap(err, "cannot generate app state")
	}
	return addGenesisOptions(config.GenesisFile(), options)
}

func (c initCmd) initTendermintFiles(config *cfg.Config) error {
	pv := privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile())
	pv.Save()
	c.logger.Info("Private validator ready", "path", config.PrivValidatorKeyFile())

	if _, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile()); err != nil {
		return errors.Wrap(err, "node key")
	}

	genFile := config.GenesisFile()
	if fileExists(genFile) {
		c.logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	pubKey := pv.GetPubKey()
	genDoc := tmtypes.GenesisDoc{
		ChainID:         fmt.Sprintf("test-chain-%v", cmn.RandStr(6)),
		GenesisTime:     tmtime.Now(),
		ConsensusParams: tmtypes.DefaultConsensusParams(),
		Validators: []tmtypes.GenesisValidator{{
			Address: pubKey.Address(),
			PubKey:  pubKey,
			Power:   10,
		}},
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(err, "cannot save genesis")
	}
	c.logger.Info("Generated genesis file", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis")
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
