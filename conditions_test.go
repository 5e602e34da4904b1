package weave_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConditionPrinting(t *testing.T) {
	Convey("condition printing keeps the prefix readable", t, func() {
		cond := weave.NewCondition("sigs", "ed25519", []byte{0xca, 0xfe})

		So(cond.String(), ShouldEqual, "sigs/ed25519/CAFE")
		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", []byte(cond)))
	})

	Convey("condition address is stable and sized", t, func() {
		cond := weave.NewCondition("sigs", "ed25519", []byte("pubkey"))
		addr := cond.Address()

		So(len(addr), ShouldEqual, weave.AddressLength)
		So(addr.Equals(cond.Address()), ShouldBeTrue)
		So(addr.Equals(weave.NewCondition("sigs", "ed25519", []byte("other")).Address()), ShouldBeFalse)
	})
}

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    weave.Condition
		wantExt string
		wantTyp string
		wantErr *errors.Error
	}{
		"valid": {
			cond:    weave.NewCondition("escrow", "seq", []byte{1}),
			wantExt: "escrow",
			wantTyp: "seq",
		},
		"extension too short": {
			cond:    weave.NewCondition("a", "seq", []byte{1}),
			wantErr: errors.ErrInput,
		},
		"missing data": {
			cond:    weave.Condition("sigs/ed25519/"),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, _, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantExt, ext)
				assert.Equal(t, tc.wantTyp, typ)
			}
		})
	}
}

func TestConditionJSON(t *testing.T) {
	cond := weave.NewCondition("sigs", "ed25519", []byte("some data"))
	raw, err := json.Marshal(cond)
	assert.Nil(t, err)

	var got weave.Condition
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, cond, got)
}
