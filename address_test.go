package weave_test

import (
	"bytes"
	"encoding/json"
	"flag"
	"io/ioutil"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestAddressJSON(t *testing.T) {
	addr := weave.Address(bytes.Repeat([]byte{7}, weave.AddressLength))

	raw, err := json.Marshal(addr)
	assert.Nil(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got weave.Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	var empty weave.Address
	assert.Nil(t, json.Unmarshal([]byte(`""`), &empty))
	assert.Equal(t, weave.Address(nil), empty)
}

func TestParseAddress(t *testing.T) {
	valid := weave.Address(bytes.Repeat([]byte{0xab}, weave.AddressLength))

	cases := map[string]struct {
		input   string
		want    weave.Address
		wantErr *errors.Error
	}{
		"base58 round trip": {
			input: valid.String(),
			want:  valid,
		},
		"empty": {
			input:   "",
			wantErr: errors.ErrEmpty,
		},
		"not base58": {
			input:   "0OIl",
			wantErr: errors.ErrInput,
		},
		"wrong size": {
			input:   weave.Address([]byte("short")).String(),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := weave.ParseAddress(tc.input)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAddressFlag(t *testing.T) {
	valid := weave.Address(bytes.Repeat([]byte{3}, weave.AddressLength))

	fl := flag.NewFlagSet("test", flag.ContinueOnError)
	var addr weave.Address
	fl.Var(&addr, "addr", "")
	assert.Nil(t, fl.Parse([]string{"-addr", valid.String()}))
	assert.Equal(t, valid, addr)

	fl.SetOutput(ioutil.Discard)
	if err := fl.Parse([]string{"-addr", "xyz"}); err == nil {
		t.Fatal("invalid address accepted")
	}
}
