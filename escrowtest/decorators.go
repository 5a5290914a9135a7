package escrowtest

import "github.com/iov-one/escrowswap"

// Decorator is a mock implementation of the escrowswap.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error

	// Panic if set is raised before calling the wrapped handler.
	Panic interface{}
}

var _ escrowswap.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx escrowswap.Context, db escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Checker) (*escrowswap.CheckResult, error) {
	d.checkCall++

	if d.Panic != nil {
		panic(d.Panic)
	}
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx escrowswap.Context, db escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Deliverer) (*escrowswap.DeliverResult, error) {
	d.deliverCall++

	if d.Panic != nil {
		panic(d.Panic)
	}
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls h through d.
func Decorate(h escrowswap.Handler, d escrowswap.Decorator) escrowswap.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn escrowswap.Handler
	dc escrowswap.Decorator
}

var _ escrowswap.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx escrowswap.Context, db escrowswap.KVStore, tx *escrowswap.Tx) (*escrowswap.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx escrowswap.Context, db escrowswap.KVStore, tx *escrowswap.Tx) (*escrowswap.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
