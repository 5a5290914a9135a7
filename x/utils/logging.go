package utils

import (
	"time"

	"github.com/iov-one/escrowswap"
)

// Logging is a decorator to log transactions as they pass through
type Logging struct{}

var _ escrowswap.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Checker) (*escrowswap.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, tx, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Deliverer) (*escrowswap.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, tx, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx escrowswap.Context, start time.Time, tx *escrowswap.Tx, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := escrowswap.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if tx != nil {
		logger = logger.With("instructions", len(tx.Instructions))
	}

	if err != nil {
		logger = logger.With("err", err)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.

	if err != nil {
		logger.Error(msg)
	} else {
		if lowPrio {
			logger.Debug(msg)
		} else {
			logger.Info(msg)
		}
	}
}
