package escrowtest

import "github.com/iov-one/escrowswap"

// Handler is a mock implementation of the escrowswap.Handler interface.
//
// If WriteKey is set, every call writes WriteValue under it before
// returning, so tests can observe whether the write survived.
type Handler struct {
	checkCall   int
	CheckResult escrowswap.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult escrowswap.DeliverResult
	DeliverErr    error

	WriteKey   []byte
	WriteValue []byte
}

var _ escrowswap.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx escrowswap.Context, db escrowswap.KVStore, tx *escrowswap.Tx) (*escrowswap.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx escrowswap.Context, db escrowswap.KVStore, tx *escrowswap.Tx) (*escrowswap.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db escrowswap.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
