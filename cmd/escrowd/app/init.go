package escrowd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
)

// initialSupply is issued to the genesis account.
const initialSupply = 123456789

// GenInitOptions produces the app_state for a development chain: one
// rich account holding initialSupply of an asset, and the escrow
// configuration owned by that account.
//
// Arguments are optional: [asset address] [owner address]. Both are
// generated when missing and the new owner key is printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var asset, owner weave.Address
	var err error
	if len(args) > 0 {
		if asset, err = weave.ParseAddress(args[0]); err != nil {
			return nil, errors.Wrap(err, "asset")
		}
	} else {
		key, err := sigs.GenPrivateKey()
		if err != nil {
			return nil, err
		}
		asset = key.PublicKey().Address()
	}
	if len(args) > 1 {
		if owner, err = weave.ParseAddress(args[1]); err != nil {
			return nil, errors.Wrap(err, "owner")
		}
	} else {
		var secret string
		owner, secret, err = GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(secret)
	}

	state := struct {
		Token []token.GenesisHolding `json:"token"`
		Conf  map[string]interface{} `json:"conf"`
	}{
		Token: []token.GenesisHolding{
			{Owner: owner, Asset: asset, Amount: initialSupply},
		},
		Conf: map[string]interface{}{
			"escrow": escrow.Configuration{Owner: owner, NativeAsset: asset},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateCoinKey returns the address of a new key, along with a JSON
// representation of its secret. Fund this address and import the secret
// in the client to use it.
func GenerateCoinKey() (weave.Address, string, error) {
	key, err := sigs.GenPrivateKey()
	if err != nil {
		return nil, "", err
	}
	addr := key.PublicKey().Address()
	out, err := json.MarshalIndent(map[string]string{
		"address": addr.String(),
		"secret":  hex.EncodeToString(key),
	}, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(out), nil
}
