package weavetest

import (
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

func TestTxReturnsMessage(t *testing.T) {
	msg := &Msg{RoutePath: "test/run"}
	tx := &Tx{Msg: msg}

	got, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.Path() != "test/run" {
		t.Fatalf("unexpected path: %q", got.Path())
	}
	if weave.GetPath(tx) != "test/run" {
		t.Fatalf("unexpected transaction path: %q", weave.GetPath(tx))
	}
}

func TestTxError(t *testing.T) {
	tx := &Tx{Err: errors.ErrMsg}
	if _, err := tx.GetMsg(); !errors.ErrMsg.Is(err) {
		t.Fatalf("want message error, got %+v", err)
	}
	if weave.GetPath(tx) != "(missing)" {
		t.Fatalf("unexpected transaction path: %q", weave.GetPath(tx))
	}
}

func TestMsgValidate(t *testing.T) {
	m := Msg{Err: errors.ErrInput}
	if err := m.Validate(); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
