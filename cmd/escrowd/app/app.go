/*
Package escrowd links together all the various components to construct
the escrowd application.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/app"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store/iavl"
	"github.com/iov-one/weave-swap/x"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
	"github.com/iov-one/weave-swap/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by abci.Info.
const Name = "escrowd"

// Authenticator returns the public key signature authentication.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle recovery, logging,
// metrics and authentication. Metrics may be nil.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		metrics,
		utils.NewPathTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router dispatches token and escrow messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := token.NewController()
	token.RegisterRoutes(r, authFn, bank, escrow.NewSendGuard(escrow.ProgramID))
	escrow.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter allows access to "/holdings", "/escrows" and "/auth" with
// their indexes.
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		token.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers reads all genesis sections.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(
		token.Initializer{},
		escrow.Initializer{},
	)
}

// Stack wires up the router with the decorator chain. This can be
// passed into BaseApp.
func Stack(metrics *utils.Metrics) weave.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Application constructs the ABCI application. An empty dbPath keeps
// the state in memory.
func Application(h weave.Handler, dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(Name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store.WithInit(Initializers()).WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, h, debug), nil
}

// GenerateApp creates the application stored under home. Transaction
// metrics are registered with reg, which may be nil.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (app.BaseApp, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}
	var metrics *utils.Metrics
	if reg != nil {
		metrics = utils.NewMetrics(Name, reg)
	}
	return Application(Stack(metrics), dbPath, logger, debug)
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}
	// Some external calls accidentally add a ".db", which is removed.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
