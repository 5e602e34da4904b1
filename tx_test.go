package weave_test

import (
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

type pingMsg struct {
	Text string
}

func (pingMsg) Path() string { return "test/ping" }

func (m pingMsg) Validate() error {
	if m.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type pongMsg struct{}

func (pongMsg) Path() string    { return "test/pong" }
func (pongMsg) Validate() error { return nil }

func TestLoadMsg(t *testing.T) {
	var msg pingMsg
	err := weave.LoadMsg(&weavetest.Tx{Msg: &pingMsg{Text: "hi"}}, &msg)
	assert.Nil(t, err)
	assert.Equal(t, "hi", msg.Text)

	err = weave.LoadMsg(&weavetest.Tx{Msg: &pingMsg{}}, &msg)
	assert.IsErr(t, errors.ErrEmpty, err)

	err = weave.LoadMsg(&weavetest.Tx{Msg: &pongMsg{}}, &msg)
	assert.IsErr(t, errors.ErrType, err)

	err = weave.LoadMsg(&weavetest.Tx{}, &msg)
	assert.IsErr(t, errors.ErrMsg, err)
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "test/pong", weave.GetPath(&weavetest.Tx{Msg: &pongMsg{}}))
	assert.Equal(t, "(missing)", weave.GetPath(&weavetest.Tx{}))
}
