package escrow

import (
	"strconv"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/gconf"
	"github.com/iov-one/weave-swap/orm"
	"github.com/iov-one/weave-swap/x"
	"github.com/iov-one/weave-swap/x/token"
	"github.com/iov-one/weave-swap/x/utils"
)

const (
	openEscrowCost    int64 = 300
	fulfillEscrowCost int64 = 200
	cancelEscrowCost  int64 = 100

	actionOpen    = "open"
	actionFulfill = "fulfill"
	actionCancel  = "cancel"
)

// Result tag keys set by every escrow handler.
const (
	TagEscrow = "escrow"
	TagAction = "action"
	TagMaker  = "maker"
	TagTaker  = "taker"
)

// SearchableTags lists the tags worth indexing by the node.
var SearchableTags = []string{TagEscrow, TagMaker, TagTaker}

// RegisterRoutes will instantiate and register all handlers in this
// package. Every handler runs isolated, so a failed operation leaves no
// trace in the store.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, bank token.Controller) {
	r.Handle(pathOpenMsg, NewOpenHandler(ProgramID, auth, bank))
	r.Handle(pathFulfillMsg, NewFulfillHandler(ProgramID, auth, bank))
	r.Handle(pathCancelMsg, NewCancelHandler(ProgramID, auth, bank))
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(pkgName, &Configuration{}, auth))
}

// OpenHandler creates escrows.
type OpenHandler struct {
	program weave.Address
	auth    x.Authenticator
	bucket  Bucket
	bank    token.Controller
}

var _ weave.Handler = OpenHandler{}

// NewOpenHandler returns an isolated handler of OpenMsg.
func NewOpenHandler(program weave.Address, auth x.Authenticator, bank token.Controller) weave.Handler {
	return utils.WithSavepoint(OpenHandler{
		program: program,
		auth:    auth,
		bucket:  NewBucket(),
		bank:    bank,
	})
}

// Check verifies the message is signed by the maker and that the escrow
// address is free.
func (h OpenHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: openEscrowCost}, nil
}

// Deliver creates the record and the vault, then moves the deposit from
// the maker to the vault.
func (h OpenHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, escrow, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	deposits, err := newDepositKeeper(h.program, h.bank)
	if err != nil {
		return nil, err
	}
	if err := deposits.Charge(db, conf, escrow, msg.Maker); err != nil {
		return nil, err
	}

	record := &Record{
		Seed:    msg.Seed,
		Maker:   msg.Maker,
		AssetA:  msg.AssetA,
		AssetB:  msg.AssetB,
		Receive: msg.Receive,
		Bump:    bump,
	}
	if err := h.bucket.Save(db, orm.NewSimpleObj(escrow, record)); err != nil {
		return nil, errors.Wrap(err, "cannot save escrow")
	}
	if err := h.openVault(db, escrow, msg.Maker, msg.AssetA); err != nil {
		return nil, err
	}
	if err := h.bank.Move(db, msg.Maker, escrow, msg.AssetA, msg.Deposit); err != nil {
		return nil, errors.Wrap(err, "cannot fund vault")
	}

	return &weave.DeliverResult{
		Data: escrow,
		Tags: escrowTags(escrow, actionOpen, msg.Maker, nil,
			weave.Tag("deposit", []byte(strconv.FormatUint(msg.Deposit, 10)))),
	}, nil
}

func (h OpenHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*OpenMsg, weave.Address, uint8, error) {
	var msg OpenMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, 0, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}

	escrow, bump, err := DeriveAuthority(h.program, msg.Maker, msg.Seed)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "cannot derive escrow address")
	}

	if ok, err := h.bucket.Has(db, escrow); err != nil {
		return nil, nil, 0, errors.Wrap(err, "cannot check escrow")
	} else if ok {
		return nil, nil, 0, errors.Wrapf(ErrAccountCreation, "escrow %s already exists", escrow)
	}
	return &msg, escrow, bump, nil
}

// openVault creates the empty vault holding. The escrow address is public
// before the escrow exists, so a holding may already be there: its units
// are handed to the maker and the holding becomes the vault.
func (h OpenHandler) openVault(db weave.KVStore, escrow, maker, asset weave.Address) error {
	ok, err := h.bank.Exists(db, escrow, asset)
	if err != nil {
		return errors.Wrap(err, "cannot check vault")
	}
	if !ok {
		if err := h.bank.Open(db, escrow, asset); err != nil {
			return errors.Wrapf(ErrAccountCreation, "cannot open vault: %s", err)
		}
		return nil
	}
	stray, err := h.bank.Balance(db, escrow, asset)
	if err != nil {
		return errors.Wrap(err, "cannot read vault balance")
	}
	if err := h.bank.Move(db, escrow, maker, asset, stray); err != nil {
		return errors.Wrap(err, "cannot empty vault")
	}
	return nil
}

// FulfillHandler settles escrows.
type FulfillHandler struct {
	program weave.Address
	auth    x.Authenticator
	bucket  Bucket
	bank    token.Controller
}

var _ weave.Handler = FulfillHandler{}

// NewFulfillHandler returns an isolated handler of FulfillMsg.
func NewFulfillHandler(program weave.Address, auth x.Authenticator, bank token.Controller) weave.Handler {
	return utils.WithSavepoint(FulfillHandler{
		program: program,
		auth:    auth,
		bucket:  NewBucket(),
		bank:    bank,
	})
}

// Check verifies the escrow is open and the taker signed.
func (h FulfillHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: fulfillEscrowCost}, nil
}

// Deliver pays the maker first. Only then the vault is released to the
// taker and the escrow is closed.
func (h FulfillHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.bank.Move(db, msg.Taker, record.Maker, record.AssetB, record.Receive); err != nil {
		return nil, errors.Wrap(err, "cannot pay maker")
	}
	if err := closeEscrow(db, h.program, h.bucket, h.bank, msg.Escrow, record, msg.Taker); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Tags: escrowTags(msg.Escrow, actionFulfill, record.Maker, msg.Taker),
	}, nil
}

func (h FulfillHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*FulfillMsg, *Record, error) {
	var msg FulfillMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	record, err := loadOpenRecord(db, h.program, h.bucket, msg.Escrow)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	return &msg, record, nil
}

// CancelHandler closes escrows on the maker request.
type CancelHandler struct {
	program weave.Address
	auth    x.Authenticator
	bucket  Bucket
	bank    token.Controller
}

var _ weave.Handler = CancelHandler{}

// NewCancelHandler returns an isolated handler of CancelMsg.
func NewCancelHandler(program weave.Address, auth x.Authenticator, bank token.Controller) weave.Handler {
	return utils.WithSavepoint(CancelHandler{
		program: program,
		auth:    auth,
		bucket:  NewBucket(),
		bank:    bank,
	})
}

// Check verifies the escrow is open and the maker signed.
func (h CancelHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver returns the vault to the maker and closes the escrow.
func (h CancelHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := closeEscrow(db, h.program, h.bucket, h.bank, msg.Escrow, record, record.Maker); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Tags: escrowTags(msg.Escrow, actionCancel, record.Maker, nil),
	}, nil
}

func (h CancelHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CancelMsg, *Record, error) {
	var msg CancelMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	record, err := loadOpenRecord(db, h.program, h.bucket, msg.Escrow)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, record.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
	}
	return &msg, record, nil
}

// loadOpenRecord returns the record stored under the escrow address and
// ensures the address is the one derived from the record content.
func loadOpenRecord(db weave.ReadOnlyKVStore, program weave.Address, bucket Bucket, escrow weave.Address) (*Record, error) {
	record, err := bucket.GetRecord(db, escrow)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load escrow")
	}
	if record == nil {
		return nil, errors.Wrapf(ErrStaleEscrow, "escrow %s is closed", escrow)
	}
	authority, err := authorityWithBump(program, record)
	if err != nil {
		return nil, errors.Wrap(err, "cannot derive escrow authority")
	}
	if !authority.Equals(escrow) {
		return nil, errors.Wrapf(errors.ErrState, "escrow %s authority mismatch", escrow)
	}
	return record, nil
}

// closeEscrow moves the whole vault to the recipient, closes the vault,
// removes the record and refunds the storage deposit to the maker.
func closeEscrow(
	db weave.KVStore,
	program weave.Address,
	bucket Bucket,
	bank token.Controller,
	escrow weave.Address,
	record *Record,
	recipient weave.Address,
) error {
	amount, err := bank.Balance(db, escrow, record.AssetA)
	if err != nil {
		return errors.Wrap(err, "cannot read vault balance")
	}
	if err := bank.Move(db, escrow, recipient, record.AssetA, amount); err != nil {
		return errors.Wrap(err, "cannot release vault")
	}
	if err := bank.Close(db, escrow, record.AssetA); err != nil {
		return errors.Wrap(err, "cannot close vault")
	}
	if err := bucket.Delete(db, escrow); err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	// Other assets can only have arrived before the escrow was opened.
	others, err := bank.Holdings(db, escrow)
	if err != nil {
		return errors.Wrap(err, "cannot list escrow holdings")
	}
	for _, hd := range others {
		if err := bank.Move(db, escrow, record.Maker, hd.Asset, hd.Amount); err != nil {
			return errors.Wrapf(err, "cannot return %s", hd.Asset)
		}
		if err := bank.Close(db, escrow, hd.Asset); err != nil {
			return errors.Wrapf(err, "cannot close holding of %s", hd.Asset)
		}
	}
	deposits, err := newDepositKeeper(program, bank)
	if err != nil {
		return err
	}
	return deposits.Refund(db, escrow, record.Maker)
}

func escrowTags(escrow weave.Address, action string, maker, taker weave.Address, extra ...weave.KVPair) []weave.KVPair {
	tags := []weave.KVPair{
		weave.Tag(TagEscrow, []byte(escrow.String())),
		weave.Tag(TagAction, []byte(action)),
		weave.Tag(TagMaker, []byte(maker.String())),
	}
	if taker != nil {
		tags = append(tags, weave.Tag(TagTaker, []byte(taker.String())))
	}
	return append(tags, extra...)
}
