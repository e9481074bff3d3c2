package local

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

const (
	counterKey = "count"
	// MaxCounterExecute bounds the increment of a single "execute:<n>" order.
	MaxCounterExecute = 10
)

// CounterContract is a custom order handler keeping a counter in treasury
// state. It understands "increment", "decrement", "reset" and "execute:<n>"
// with n up to MaxCounterExecute.
type CounterContract struct {
	Name string
}

var _ core.CustomOrderHandler = CounterContract{}

func (c CounterContract) HandleCustomOrder(ctx context.Context, tx core.TreasuryTx, order core.Custom) error {
	count, err := c.load(tx)
	if err != nil {
		return err
	}
	op, arg, _ := strings.Cut(order.Message, ":")
	switch op {
	case "increment":
		count++
	case "decrement":
		if count == 0 {
			return errors.Wrapf(core.ErrInvalidMessage, "counter %s is already zero", c.Name)
		}
		count--
	case "reset":
		count = 0
	case "execute":
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return errors.Wrapf(core.ErrInvalidMessage, "execute argument %q", arg)
		}
		if n > MaxCounterExecute {
			return errors.Wrapf(core.ErrInvalidMessage, "execute argument %d is over %d", n, MaxCounterExecute)
		}
		count += n
	default:
		return errors.Wrapf(core.ErrNotSupported, "counter order %q", order.Message)
	}
	return tx.SetContractState(c.Name, counterKey, strconv.FormatUint(count, 10))
}

func (c CounterContract) load(r core.TreasuryReader) (uint64, error) {
	v, ok, err := r.ContractState(c.Name, counterKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseUint(v, 10, 64)
}

// Count returns the current value of the counter.
func (c CounterContract) Count(ctx context.Context, store core.TreasuryStore) (count uint64, err error) {
	err = store.View(ctx, func(r core.TreasuryReader) error {
		count, err = c.load(r)
		return err
	})
	return
}
