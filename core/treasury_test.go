package core_test

import (
	"context"
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/provers/mock"
	"github.com/hyperledger-labs/yui-colony/store/kvstore"
)

type fixture struct {
	lc       *core.LightClient
	store    *kvstore.Store
	treasury *core.Treasury
}

func newFixture(t *testing.T, opts ...core.TreasuryOption) *fixture {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewMemStore()
	t.Cleanup(func() { store.Close() })
	lc, err := core.LoadLightClient(ctx, store, "shibuya", genesis, mock.NewProver(false))
	require.NoError(t, err)
	require.NoError(t, lc.Update(ctx, core.Header{0x02}, valid))
	return &fixture{lc: lc, store: store, treasury: core.NewTreasury(lc, store, opts...)}
}

func (f *fixture) lastSequence(t *testing.T) uint64 {
	seq, err := f.treasury.LastSequence(context.Background(), "shibuya")
	require.NoError(t, err)
	return seq
}

func fungible(amount uint64, receiver string, seq uint64) core.DeliverableMessage {
	return core.NewFungibleTokenTransferMessage("0x1", sdkmath.NewUint(amount), receiver, seq)
}

func TestTreasuryFungibleTransfer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.treasury.Deposit(ctx, "0x1", sdkmath.NewUint(1000)))

	require.NoError(t, f.treasury.Transfer(ctx, fungible(300, "0x3", 1), 1, valid))

	balance, err := f.treasury.FungibleBalance(ctx, "0x1")
	require.NoError(t, err)
	require.Equal(t, "700", balance.String())
	paid, err := f.treasury.AccountBalance(ctx, "0x1", "0x3")
	require.NoError(t, err)
	require.Equal(t, "300", paid.String())
	require.EqualValues(t, 1, f.lastSequence(t))

	deliveries, err := f.treasury.Deliveries(ctx, "shibuya")
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	require.EqualValues(t, 1, deliveries[0].Sequence)
	require.EqualValues(t, 1, deliveries[0].BlockHeight)
}

func TestTreasuryRejections(t *testing.T) {
	cases := []struct {
		name    string
		message core.DeliverableMessage
		height  uint64
		proof   core.MerkleProof
		reason  error
	}{
		{"replay", fungible(10, "0x3", 1), 1, valid, core.ErrAlreadyDelivered},
		{"sequence gap", fungible(10, "0x3", 3), 1, valid, core.ErrSequenceGap},
		{"insufficient balance", fungible(800, "0x3", 2), 1, valid, core.ErrInsufficientBalance},
		{"invalid receiver", fungible(10, "alice", 2), 1, valid, core.ErrInvalidAddress},
		{"nft not held", core.NewNonFungibleTokenTransferMessage("0xc0", "7", "0x3", 2), 1, valid, core.ErrAssetNotHeld},
		{"stale height", fungible(10, "0x3", 2), 0, valid, core.ErrHeightMismatch},
		{"invalid proof", fungible(10, "0x3", 2), 1, core.MerkleProof{0x00}, core.ErrInvalidProof},
		{"zero sequence", fungible(10, "0x3", 0), 1, valid, core.ErrInvalidMessage},
		{"custom order via transfer", core.NewCustomMessage("increment", 2), 1, valid, core.ErrNotSupported},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			require.NoError(t, f.treasury.Deposit(ctx, "0x1", sdkmath.NewUint(1000)))
			require.NoError(t, f.treasury.Transfer(ctx, fungible(300, "0x3", 1), 1, valid))

			err := f.treasury.Transfer(ctx, c.message, c.height, c.proof)
			require.True(t, errors.Is(err, c.reason), err)

			// nothing is applied on failure
			require.EqualValues(t, 1, f.lastSequence(t))
			balance, err := f.treasury.FungibleBalance(ctx, "0x1")
			require.NoError(t, err)
			require.Equal(t, "700", balance.String())
		})
	}
}

func TestTreasuryNonFungibleTransfer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.treasury.DepositNonFungible(ctx, "0xc0", "7"))

	holdings, err := f.treasury.NonFungibleHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	message := core.NewNonFungibleTokenTransferMessage("0xc0", "7", "0x3", 1)
	require.NoError(t, f.treasury.Transfer(ctx, message, 1, valid))

	holdings, err = f.treasury.NonFungibleHoldings(ctx)
	require.NoError(t, err)
	require.Empty(t, holdings)

	// the asset left custody, so a second transfer of it fails
	again := core.NewNonFungibleTokenTransferMessage("0xc0", "7", "0x3", 2)
	require.True(t, errors.Is(f.treasury.Transfer(ctx, again, 1, valid), core.ErrAssetNotHeld))
}

func TestTreasuryCustomOrder(t *testing.T) {
	ctx := context.Background()
	handled := 0
	handler := core.CustomOrderHandlerFunc(func(_ context.Context, tx core.TreasuryTx, order core.Custom) error {
		if order.Message == "fail" {
			return errors.Wrap(core.ErrInvalidMessage, "refused")
		}
		handled++
		return tx.SetContractState("counter", "last", order.Message)
	})
	f := newFixture(t, core.WithCustomOrderHandler("counter", handler))

	require.NoError(t, f.treasury.DeliverCustomOrder(ctx, "counter", core.Custom{Message: "increment", ContractSequence: 1}, 1, valid))
	require.Equal(t, 1, handled)

	err := f.treasury.DeliverCustomOrder(ctx, "counter", core.Custom{Message: "fail", ContractSequence: 2}, 1, valid)
	require.True(t, errors.Is(err, core.ErrInvalidMessage), err)
	require.EqualValues(t, 1, f.lastSequence(t))

	err = f.treasury.DeliverCustomOrder(ctx, "unknown", core.Custom{Message: "increment", ContractSequence: 2}, 1, valid)
	require.True(t, errors.Is(err, core.ErrNotSupported), err)

	require.NoError(t, f.store.View(ctx, func(r core.TreasuryReader) error {
		v, ok, err := r.ContractState("counter", "last")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "increment", v)
		return nil
	}))
}

func TestTreasuryBech32Receiver(t *testing.T) {
	ctx := context.Background()
	codec := core.Bech32AddressCodec{Prefix: "colony"}
	receiver, err := codec.Encode([]byte("receiver-account-0001"))
	require.NoError(t, err)

	f := newFixture(t, core.WithAddressCodec(codec))
	require.NoError(t, f.treasury.Deposit(ctx, "0x1", sdkmath.NewUint(5)))
	require.NoError(t, f.treasury.Transfer(ctx, fungible(5, receiver, 1), 1, valid))

	paid, err := f.treasury.AccountBalance(ctx, "0x1", receiver)
	require.NoError(t, err)
	require.Equal(t, "5", paid.String())

	err = f.treasury.Transfer(ctx, fungible(1, "0x3", 2), 1, valid)
	require.True(t, errors.Is(err, core.ErrInvalidAddress), err)
}

func TestTreasuryDepositValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.True(t, errors.Is(f.treasury.Deposit(ctx, "", sdkmath.NewUint(1)), core.ErrInvalidMessage))
	require.True(t, errors.Is(f.treasury.Deposit(ctx, "0x1", sdkmath.Uint{}), core.ErrInvalidMessage))
	require.True(t, errors.Is(f.treasury.DepositNonFungible(ctx, "0xc0", ""), core.ErrInvalidMessage))
}

func TestTreasuryOlderSequenceAfterNewer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.treasury.Deposit(ctx, "0x1", sdkmath.NewUint(1000)))
	require.NoError(t, f.treasury.Transfer(ctx, fungible(100, "0x3", 1), 1, valid))
	require.NoError(t, f.treasury.Transfer(ctx, fungible(100, "0x3", 2), 1, valid))

	err := f.treasury.Transfer(ctx, fungible(100, "0x3", 1), 1, valid)
	require.True(t, errors.Is(err, core.ErrAlreadyDelivered), err)
	require.EqualValues(t, 2, f.lastSequence(t))

	balance, err := f.treasury.FungibleBalance(ctx, "0x1")
	require.NoError(t, err)
	require.Equal(t, "800", balance.String())
}

func TestTreasuryBalanceOverflow(t *testing.T) {
	maxBalance := sdkmath.NewUintFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), core.MaxBalanceBits), big.NewInt(1)))
	receiver, err := core.HexAddressCodec{}.Decode("0x3")
	require.NoError(t, err)

	cases := []struct {
		name   string
		seed   func(tx core.TreasuryTx) error
		action func(ctx context.Context, f *fixture) error
		reason error
	}{
		{
			name: "deposit wider than an amount",
			seed: func(core.TreasuryTx) error { return nil },
			action: func(ctx context.Context, f *fixture) error {
				return f.treasury.Deposit(ctx, "0x1", sdkmath.NewUintFromBigInt(new(big.Int).Lsh(big.NewInt(1), core.MaxAmountBits)))
			},
			reason: core.ErrInvalidMessage,
		},
		{
			name: "deposit onto a full balance",
			seed: func(tx core.TreasuryTx) error { return tx.SetFungibleBalance("0x1", maxBalance) },
			action: func(ctx context.Context, f *fixture) error {
				return f.treasury.Deposit(ctx, "0x1", sdkmath.NewUint(1))
			},
			reason: core.ErrBalanceOverflow,
		},
		{
			name: "transfer onto a full account",
			seed: func(tx core.TreasuryTx) error {
				if err := tx.SetFungibleBalance("0x1", sdkmath.NewUint(10)); err != nil {
					return err
				}
				return tx.SetAccountBalance("0x1", receiver, maxBalance)
			},
			action: func(ctx context.Context, f *fixture) error {
				return f.treasury.Transfer(ctx, fungible(1, "0x3", 1), 1, valid)
			},
			reason: core.ErrBalanceOverflow,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			require.NoError(t, f.store.Update(ctx, c.seed))
			before, err := f.treasury.FungibleBalances(ctx)
			require.NoError(t, err)

			err = c.action(ctx, f)
			require.True(t, errors.Is(err, c.reason), err)

			after, err := f.treasury.FungibleBalances(ctx)
			require.NoError(t, err)
			require.Equal(t, before, after)
			require.EqualValues(t, 0, f.lastSequence(t))
		})
	}
}
