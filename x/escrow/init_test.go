package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	native := weavetest.RandomAddr(t)

	cases := map[string]struct {
		genesis  string
		wantErr  *errors.Error
		wantConf Configuration
	}{
		"no configuration": {
			genesis: `{}`,
		},
		"configuration": {
			genesis: `{"conf": {"escrow": {
				"owner": "` + owner.String() + `",
				"storage_deposit": 5,
				"native_asset": "` + native.String() + `"
			}}}`,
			wantConf: Configuration{Owner: owner, StorageDeposit: 5, NativeAsset: native},
		},
		"deposit without asset": {
			genesis: `{"conf": {"escrow": {
				"owner": "` + owner.String() + `",
				"storage_deposit": 5
			}}}`,
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts weave.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := newTestStore()
			err := Initializer{}.FromGenesis(opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			conf, err := loadConf(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantConf, conf)
		})
	}
}
