package app

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/logging"
	"github.com/iov-one/escrowswap/x/escrow"
	"github.com/iov-one/escrowswap/x/sigs"
	"github.com/iov-one/escrowswap/x/system"
	"github.com/iov-one/escrowswap/x/token"
	"github.com/iov-one/escrowswap/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultRouter registers the system, token and escrow programs.
func DefaultRouter(escrowID escrowswap.PublicKey) *Router {
	r := NewRouter()
	r.Register(escrowswap.SystemProgramID, system.NewProgram())
	r.Register(escrowswap.TokenProgramID, token.NewProgram())
	r.Register(escrowID, escrow.NewProcessor())
	return r
}

// Stack wires up the standard decorators in front of an executor for the
// router. Every transaction runs inside of a savepoint, so a failing
// instruction reverts all of them.
func Stack(r *Router) escrowswap.Handler {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
	).WithHandler(
		NewExecutor(r, sigs.Authenticate{}),
	)
}

// Open builds a ready to use ledger out of the configuration. An empty
// store is initialized from the configured genesis file. The returned
// function releases the store and the log output.
func Open(conf *Config) (*Ledger, func() error, error) {
	logger, closeLog, err := logging.New(conf.Log)
	if err != nil {
		return nil, nil, err
	}
	db, err := conf.Store.Open()
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}
	closeAll := func() error {
		db.Close()
		return closeLog()
	}

	l, err := NewLedger(db, Stack(DefaultRouter(conf.EscrowProgramID())), logger.With("module", "ledger"))
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	if err := initLedger(l, conf, logger); err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	return l, closeAll, nil
}

func initLedger(l *Ledger, conf *Config, logger log.Logger) error {
	if l.ChainID() == "" {
		if conf.Genesis == "" {
			return errors.Wrap(errors.ErrInput, "empty store and no genesis file")
		}
		g, err := LoadGenesis(conf.Genesis)
		if err != nil {
			return errors.Wrap(err, "genesis")
		}
		if err := l.InitGenesis(g); err != nil {
			return err
		}
		if _, err := l.Commit(); err != nil {
			return errors.Wrap(err, "commit genesis")
		}
	}
	if conf.ChainID != "" && conf.ChainID != l.ChainID() {
		return errors.Wrapf(errors.ErrInput, "store holds chain %q, configured %q", l.ChainID(), conf.ChainID)
	}
	logger.Info("ledger open", "chain_id", l.ChainID(), "slot", l.Slot(), "version", escrowswap.Version())
	return nil
}
