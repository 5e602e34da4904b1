package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestCmdTransactionView(t *testing.T) {
	esc := weavetest.RandomAddr(t)

	var tx bytes.Buffer
	assert.Nil(t, cmdCancel(nil, &tx, []string{"-escrow", esc.String()}))

	var output bytes.Buffer
	assert.Nil(t, cmdTransactionView(&tx, &output, nil))

	view := output.String()
	for _, want := range []string{`"escrow/cancel"`, esc.String()} {
		if !strings.Contains(view, want) {
			t.Fatalf("%q not found in\n%s", want, view)
		}
	}
}
