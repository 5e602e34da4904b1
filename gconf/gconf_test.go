package gconf

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()
	owner := weavetest.NewCondition().Address()

	var missing myconfig
	if err := Load(db, "mypkg", &missing); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}

	want := &myconfig{Owner: owner, Num: 7, Str: "seven"}
	assert.Nil(t, Save(db, "mypkg", want))

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, want, &got)

	// Another package configuration is stored separately.
	if err := Load(db, "otherpkg", &got); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}

func TestSaveInvalid(t *testing.T) {
	db := store.MemStore()
	err := Save(db, "mypkg", &myconfig{Num: 1, Str: "x"})
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	genesis := `{
		"conf": {
			"mypkg": {"owner": "` + owner.String() + `", "num": 42, "str": "answer"}
		}
	}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var conf myconfig
	assert.Nil(t, InitConfig(db, opts, "mypkg", &conf))

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, &myconfig{Owner: owner, Num: 42, Str: "answer"}, &got)
}

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := weavetest.NewCondition()

	cases := map[string]struct {
		// Init is the configuration's initial state. Use nil to not
		// provide one.
		Init ValidMarshaler

		Msg            weave.Msg
		MsgConditions  []weave.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error

		// When not nil database state will be tested to contain the
		// exact version of the configuration.
		WantConfig *myconfig
	}{
		"success": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
			},
			MsgConditions: []weave.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1, Str: "x"},
			},
			MsgConditions:  []weave.Condition{weavetest.NewCondition()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"zero values are not updating the configuration": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: 0, Str: "new"},
			},
			MsgConditions: []weave.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "new"},
		},
		"configuration must exist": {
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1, Str: "x"},
			},
			MsgConditions:  []weave.Condition{cond},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
		"patch is required": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:            &myconfigMsg{},
			MsgConditions:  []weave.Condition{cond},
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			if tc.Init != nil {
				if err := Save(db, "mypkg", tc.Init); err != nil {
					t.Fatalf("cannot save initial configuration: %s", err)
				}
			}

			var c myconfig
			auth := &weavetest.CtxAuth{Key: "auth"}
			handler := NewUpdateConfigurationHandler("mypkg", &c, auth)

			ctx := weave.WithChainID(context.Background(), "mychain-123")
			ctx = auth.SetConditions(ctx, tc.MsgConditions...)

			tx := &weavetest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := handler.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("check: %+v", err)
			}
			cache.Discard()

			if _, err := handler.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("deliver: %+v", err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				if err := Load(db, "mypkg", &got); err != nil {
					t.Fatalf("cannot load configuration from the database: %s", err)
				}
				assert.Equal(t, tc.WantConfig, &got)
			}
		})
	}
}

type myconfig struct {
	Owner weave.Address `json:"owner"`
	Num   int64         `json:"num"`
	Str   string        `json:"str"`
}

func (c *myconfig) GetOwner() weave.Address {
	return c.Owner
}

func (c *myconfig) Validate() error {
	if c.Owner == nil {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return c.Owner.Validate()
}

func (c *myconfig) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *myconfig) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

type myconfigMsg struct {
	Patch *myconfig
}

func (*myconfigMsg) Path() string {
	return "mypkg/update_config"
}

func (*myconfigMsg) Validate() error {
	return nil
}
