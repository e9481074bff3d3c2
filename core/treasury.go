package core

import (
	"context"
	"math/big"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxBalanceBits bounds every balance held or paid out by a treasury.
const MaxBalanceBits = 256

// CustomOrderHandler executes a verified custom message on behalf of a
// destination-side contract. Writes made through tx commit together with the
// sequence advance.
type CustomOrderHandler interface {
	HandleCustomOrder(ctx context.Context, tx TreasuryTx, order Custom) error
}

// CustomOrderHandlerFunc adapts a function to CustomOrderHandler.
type CustomOrderHandlerFunc func(ctx context.Context, tx TreasuryTx, order Custom) error

func (f CustomOrderHandlerFunc) HandleCustomOrder(ctx context.Context, tx TreasuryTx, order Custom) error {
	return f(ctx, tx, order)
}

// Treasury custodies assets on a destination chain and releases them only
// for delivery records certified by its light client.
type Treasury struct {
	mtx      sync.Mutex
	verifier CommitmentVerifier
	store    TreasuryStore
	codec    AddressCodec
	handlers map[string]CustomOrderHandler
}

type TreasuryOption func(*Treasury)

// WithAddressCodec sets the codec receivers are decoded with. The default is
// HexAddressCodec.
func WithAddressCodec(codec AddressCodec) TreasuryOption {
	return func(t *Treasury) { t.codec = codec }
}

// WithCustomOrderHandler registers the handler of custom orders addressed to
// contractName.
func WithCustomOrderHandler(contractName string, h CustomOrderHandler) TreasuryOption {
	return func(t *Treasury) { t.handlers[contractName] = h }
}

// NewTreasury returns a treasury bound to verifier for its whole lifetime.
func NewTreasury(verifier CommitmentVerifier, store TreasuryStore, opts ...TreasuryOption) *Treasury {
	t := &Treasury{
		verifier: verifier,
		store:    store,
		codec:    HexAddressCodec{},
		handlers: make(map[string]CustomOrderHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SourceChain returns the chain whose records the treasury accepts.
func (t *Treasury) SourceChain() string {
	return t.verifier.SourceChain()
}

// Transfer applies a fungible or non-fungible transfer committed at
// blockHeight. Custom messages must go through DeliverCustomOrder.
func (t *Treasury) Transfer(ctx context.Context, message DeliverableMessage, blockHeight uint64, proof MerkleProof) error {
	return t.deliver(ctx, "", message, blockHeight, proof)
}

// DeliverCustomOrder applies a custom message committed at blockHeight by
// handing it to the handler registered for contractName.
func (t *Treasury) DeliverCustomOrder(ctx context.Context, contractName string, order Custom, blockHeight uint64, proof MerkleProof) error {
	return t.deliver(ctx, contractName, DeliverableMessage{Custom: &order}, blockHeight, proof)
}

func (t *Treasury) deliver(ctx context.Context, contractName string, message DeliverableMessage, blockHeight uint64, proof MerkleProof) error {
	source := t.verifier.SourceChain()
	ctx, span := tracer.Start(ctx, "Treasury.Transfer", trace.WithAttributes(
		AttributeKeyChainName.String(source),
		AttributeKeyHeight.Int64(int64(blockHeight)),
		AttributeKeyMessageKind.String(string(message.Kind())),
		AttributeKeySequence.Int64(int64(message.ContractSequence())),
	))
	defer span.End()
	logger := GetTreasuryLogger(source)

	fail := func(err error) error {
		span.SetStatus(codes.Error, err.Error())
		recordDelivery(ctx, source, message.Kind(), err)
		if errors.Is(err, ErrAlreadyDelivered) {
			logger.InfoContext(ctx, "message already delivered", "message", message.String(), "height", blockHeight)
		} else {
			logger.ErrorContext(ctx, "delivery rejected", err, "message", message.String(), "height", blockHeight)
		}
		return err
	}

	if err := message.ValidateBasic(); err != nil {
		return fail(err)
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if err := t.verifier.VerifyCommitment(ctx, message, blockHeight, proof); err != nil {
		return fail(err)
	}

	seq := message.ContractSequence()
	err := t.store.Update(ctx, func(tx TreasuryTx) error {
		last, err := tx.LastSequence(source)
		if err != nil {
			return err
		}
		switch {
		case seq <= last:
			return errors.Wrapf(ErrAlreadyDelivered, "sequence %d from %s (last applied %d)", seq, source, last)
		case seq > last+1:
			return errors.Wrapf(ErrSequenceGap, "sequence %d from %s (expected %d)", seq, source, last+1)
		}

		switch message.Kind() {
		case MessageKindFungibleTokenTransfer:
			err = t.transferFungible(tx, message.FungibleTokenTransfer)
		case MessageKindNonFungibleTokenTransfer:
			err = t.transferNonFungible(tx, message.NonFungibleTokenTransfer)
		case MessageKindCustom:
			err = t.deliverCustom(ctx, tx, contractName, message.Custom)
		default:
			err = errors.Wrapf(ErrNotSupported, "message kind %q", message.Kind())
		}
		if err != nil {
			return err
		}

		if err := tx.SetLastSequence(source, seq); err != nil {
			return err
		}
		return tx.RecordDelivery(Delivery{
			SourceChain: source,
			Sequence:    seq,
			BlockHeight: blockHeight,
			Message:     message,
		})
	})
	if err != nil {
		return fail(err)
	}

	recordDelivery(ctx, source, message.Kind(), nil)
	logger.InfoContext(ctx, "message delivered", "message", message.String(), "height", blockHeight)
	return nil
}

func (t *Treasury) transferFungible(tx TreasuryTx, ft *FungibleTokenTransfer) error {
	balance, err := tx.FungibleBalance(ft.TokenID)
	if err != nil {
		return err
	}
	if balance.LT(ft.Amount) {
		return errors.Wrapf(ErrInsufficientBalance, "token %s: balance=%s amount=%s", ft.TokenID, balance, ft.Amount)
	}
	receiver, err := t.codec.Decode(ft.ReceiverAddress)
	if err != nil {
		return err
	}
	credited, err := tx.AccountBalance(ft.TokenID, receiver)
	if err != nil {
		return err
	}
	credited, err = addBalance(credited, ft.Amount)
	if err != nil {
		return err
	}
	if err := tx.SetFungibleBalance(ft.TokenID, balance.Sub(ft.Amount)); err != nil {
		return err
	}
	return tx.SetAccountBalance(ft.TokenID, receiver, credited)
}

// addBalance returns a+b, or ErrBalanceOverflow if the sum does not fit in
// MaxBalanceBits.
func addBalance(a, b sdkmath.Uint) (sdkmath.Uint, error) {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	if sum.BitLen() > MaxBalanceBits {
		return sdkmath.Uint{}, errors.Wrapf(ErrBalanceOverflow, "%s + %s", a, b)
	}
	return sdkmath.NewUintFromBigInt(sum), nil
}

func (t *Treasury) transferNonFungible(tx TreasuryTx, nft *NonFungibleTokenTransfer) error {
	owner, held, err := tx.NonFungibleOwner(nft.CollectionAddress, nft.TokenIndex)
	if err != nil {
		return err
	}
	if !held || owner != nil {
		return errors.Wrapf(ErrAssetNotHeld, "collection=%s index=%s", nft.CollectionAddress, nft.TokenIndex)
	}
	receiver, err := t.codec.Decode(nft.ReceiverAddress)
	if err != nil {
		return err
	}
	return tx.SetNonFungibleOwner(nft.CollectionAddress, nft.TokenIndex, receiver)
}

func (t *Treasury) deliverCustom(ctx context.Context, tx TreasuryTx, contractName string, order *Custom) error {
	h, ok := t.handlers[contractName]
	if !ok {
		return errors.Wrapf(ErrNotSupported, "no custom order handler for contract %q", contractName)
	}
	return h.HandleCustomOrder(ctx, tx, *order)
}

// Deposit credits the treasury with amount of tokenID.
func (t *Treasury) Deposit(ctx context.Context, tokenID string, amount sdkmath.Uint) error {
	if tokenID == "" || amount.IsNil() {
		return errors.Wrap(ErrInvalidMessage, "deposit requires a token id and an amount")
	}
	if amount.BigInt().BitLen() > MaxAmountBits {
		return errors.Wrapf(ErrInvalidMessage, "amount exceeds %d bits", MaxAmountBits)
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.store.Update(ctx, func(tx TreasuryTx) error {
		balance, err := tx.FungibleBalance(tokenID)
		if err != nil {
			return err
		}
		if balance, err = addBalance(balance, amount); err != nil {
			return err
		}
		return tx.SetFungibleBalance(tokenID, balance)
	})
}

// DepositNonFungible places a non-fungible asset in custody of the treasury.
func (t *Treasury) DepositNonFungible(ctx context.Context, collection, index string) error {
	if collection == "" || index == "" {
		return errors.Wrap(ErrInvalidMessage, "deposit requires a collection address and a token index")
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.store.Update(ctx, func(tx TreasuryTx) error {
		return tx.SetNonFungibleOwner(collection, index, nil)
	})
}

// FungibleBalances returns the balance of every token held by the treasury.
func (t *Treasury) FungibleBalances(ctx context.Context) (balances map[string]sdkmath.Uint, err error) {
	err = t.store.View(ctx, func(r TreasuryReader) error {
		balances, err = r.FungibleBalances()
		return err
	})
	return
}

// FungibleBalance returns the balance of tokenID held by the treasury.
func (t *Treasury) FungibleBalance(ctx context.Context, tokenID string) (balance sdkmath.Uint, err error) {
	err = t.store.View(ctx, func(r TreasuryReader) error {
		balance, err = r.FungibleBalance(tokenID)
		return err
	})
	return
}

// AccountBalance returns what the treasury paid out of tokenID to address.
func (t *Treasury) AccountBalance(ctx context.Context, tokenID, address string) (balance sdkmath.Uint, err error) {
	account, err := t.codec.Decode(address)
	if err != nil {
		return sdkmath.Uint{}, err
	}
	err = t.store.View(ctx, func(r TreasuryReader) error {
		balance, err = r.AccountBalance(tokenID, account)
		return err
	})
	return
}

// NonFungibleHoldings returns the non-fungible assets in custody.
func (t *Treasury) NonFungibleHoldings(ctx context.Context) (holdings []NonFungibleHolding, err error) {
	err = t.store.View(ctx, func(r TreasuryReader) error {
		holdings, err = r.NonFungibleHoldings()
		return err
	})
	return
}

// LastSequence returns the last contract sequence applied from chain.
func (t *Treasury) LastSequence(ctx context.Context, chain string) (seq uint64, err error) {
	err = t.store.View(ctx, func(r TreasuryReader) error {
		seq, err = r.LastSequence(chain)
		return err
	})
	return
}

// Deliveries returns the receipts of the records applied from chain.
func (t *Treasury) Deliveries(ctx context.Context, chain string) (deliveries []Delivery, err error) {
	err = t.store.View(ctx, func(r TreasuryReader) error {
		deliveries, err = r.Deliveries(chain)
		return err
	})
	return
}
