package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	escrowd "github.com/iov-one/weave-swap/cmd/escrowd/app"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupViper creates a homedir to run inside.
func setupViper(t *testing.T) (string, func()) {
	rootDir, err := ioutil.TempDir("", "escrowd-cmd")
	require.NoError(t, err)
	viper.Set(FlagHome, rootDir)
	return rootDir, func() {
		viper.Set(FlagHome, "")
		os.RemoveAll(rootDir)
	}
}

func TestInit(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	asset, owner := weavetest.RandomAddr(t), weavetest.RandomAddr(t)
	cmd := InitCmd(escrowd.GenInitOptions, log.NewNopLogger(), "escrow", "maker")
	require.NoError(t, cmd.RunE(cmd, []string{asset.String(), owner.String()}))

	conf, err := ioutil.ReadFile(filepath.Join(home, "config", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(conf), `index_tags = "escrow,maker"`)

	for _, name := range []string{"genesis.json", "priv_validator_key.json", "node_key.json"} {
		assert.True(t, fileExists(filepath.Join(home, "config", name)), name)
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	var doc genesisDoc
	bz, err := ioutil.ReadFile(genFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &doc))

	// keep tendermint values, and add our values
	var chainID string
	require.NoError(t, json.Unmarshal(doc["chain_id"], &chainID))
	assert.True(t, strings.HasPrefix(chainID, "test-chain-"), chainID)
	assert.NotEmpty(t, doc["validators"])
	assert.Contains(t, string(doc[appStateKey]), owner.String())

	// A second run keeps the genesis and rewrites the app state.
	require.NoError(t, cmd.RunE(cmd, []string{asset.String(), asset.String()}))
	bz, err = ioutil.ReadFile(genFile)
	require.NoError(t, err)
	var again genesisDoc
	require.NoError(t, json.Unmarshal(bz, &again))
	assert.Equal(t, doc["chain_id"], again["chain_id"])
	assert.NotContains(t, string(again[appStateKey]), owner.String())

	require.NoError(t, ValidateGenesis(escrowd.Initializers(), []string{genFile}))
}

func TestInitWithoutOptions(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	cmd := InitCmd(nil, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	bz, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	var doc genesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	_, ok := doc[appStateKey]
	assert.False(t, ok)
}

func TestAddGenesisOptionsBrokenFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte("{broken"), 0600))
	assert.Error(t, addGenesisOptions(path, json.RawMessage(`{}`)))
	assert.Error(t, addGenesisOptions(filepath.Join(dir, "missing.json"), json.RawMessage(`{}`)))
}
