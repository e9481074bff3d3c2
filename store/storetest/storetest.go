// Package storetest checks the behaviour every core.Store implementation
// must share.
package storetest

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/core"
)

// Run runs the shared store tests against stores returned by newStore. Every
// call to newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) core.Store) {
	t.Run("LightClient", func(t *testing.T) { testLightClient(t, newStore(t)) })
	t.Run("UpdateCommits", func(t *testing.T) { testUpdateCommits(t, newStore(t)) })
	t.Run("UpdateRollsBack", func(t *testing.T) { testUpdateRollsBack(t, newStore(t)) })
	t.Run("ReadYourWrites", func(t *testing.T) { testReadYourWrites(t, newStore(t)) })
	t.Run("NonFungible", func(t *testing.T) { testNonFungible(t, newStore(t)) })
	t.Run("Deliveries", func(t *testing.T) { testDeliveries(t, newStore(t)) })
	t.Run("ArbitraryKeyBytes", func(t *testing.T) { testArbitraryKeyBytes(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

func testLightClient(t *testing.T, s core.Store) {
	ctx := context.Background()

	_, err := s.LoadLightClient(ctx, "ethereum")
	require.True(t, errors.Is(err, core.ErrNotFound), "got %v", err)

	for _, state := range []core.LightClientState{
		{ChainName: "ethereum", Height: 0, LastHeader: core.Header{0x01}},
		{ChainName: "ethereum", Height: 1, LastHeader: core.Header{0x02, 0x03}},
	} {
		require.NoError(t, s.SaveLightClient(ctx, state))
		got, err := s.LoadLightClient(ctx, "ethereum")
		require.NoError(t, err)
		require.Equal(t, state, *got)
	}

	_, err = s.LoadLightClient(ctx, "polygon")
	require.True(t, errors.Is(err, core.ErrNotFound))
}

func testUpdateCommits(t *testing.T, s core.Store) {
	ctx := context.Background()
	receiver := []byte{0x03}

	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		if err := tx.SetFungibleBalance("0x1", sdkmath.NewUint(700)); err != nil {
			return err
		}
		if err := tx.SetFungibleBalance("0x2", sdkmath.NewUint(5)); err != nil {
			return err
		}
		if err := tx.SetAccountBalance("0x1", receiver, sdkmath.NewUint(300)); err != nil {
			return err
		}
		if err := tx.SetContractState("counter", "value", "7"); err != nil {
			return err
		}
		return tx.SetLastSequence("ethereum", 1)
	}))

	require.NoError(t, s.View(ctx, func(r core.TreasuryReader) error {
		balances, err := r.FungibleBalances()
		require.NoError(t, err)
		require.Len(t, balances, 2)
		require.True(t, balances["0x1"].Equal(sdkmath.NewUint(700)))
		require.True(t, balances["0x2"].Equal(sdkmath.NewUint(5)))

		credited, err := r.AccountBalance("0x1", receiver)
		require.NoError(t, err)
		require.True(t, credited.Equal(sdkmath.NewUint(300)))

		untouched, err := r.AccountBalance("0x2", receiver)
		require.NoError(t, err)
		require.True(t, untouched.IsZero())

		v, ok, err := r.ContractState("counter", "value")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "7", v)

		_, ok, err = r.ContractState("counter", "missing")
		require.NoError(t, err)
		require.False(t, ok)

		seq, err := r.LastSequence("ethereum")
		require.NoError(t, err)
		require.EqualValues(t, 1, seq)

		seq, err = r.LastSequence("polygon")
		require.NoError(t, err)
		require.Zero(t, seq)
		return nil
	}))
}

func testUpdateRollsBack(t *testing.T, s core.Store) {
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		return tx.SetFungibleBalance("0x1", sdkmath.NewUint(10))
	}))

	errAbort := errors.New("abort")
	err := s.Update(ctx, func(tx core.TreasuryTx) error {
		if err := tx.SetFungibleBalance("0x1", sdkmath.NewUint(0)); err != nil {
			return err
		}
		if err := tx.SetLastSequence("ethereum", 9); err != nil {
			return err
		}
		return errAbort
	})
	require.True(t, errors.Is(err, errAbort))

	require.NoError(t, s.View(ctx, func(r core.TreasuryReader) error {
		balance, err := r.FungibleBalance("0x1")
		require.NoError(t, err)
		require.True(t, balance.Equal(sdkmath.NewUint(10)))
		seq, err := r.LastSequence("ethereum")
		require.NoError(t, err)
		require.Zero(t, seq)
		return nil
	}))
}

func testReadYourWrites(t *testing.T, s core.Store) {
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		require.NoError(t, tx.SetFungibleBalance("0x1", sdkmath.NewUint(42)))
		balance, err := tx.FungibleBalance("0x1")
		require.NoError(t, err)
		require.True(t, balance.Equal(sdkmath.NewUint(42)))

		balances, err := tx.FungibleBalances()
		require.NoError(t, err)
		require.Len(t, balances, 1)

		require.NoError(t, tx.SetNonFungibleOwner("0xc0", "1", nil))
		_, held, err := tx.NonFungibleOwner("0xc0", "1")
		require.NoError(t, err)
		require.True(t, held)
		return nil
	}))
}

func testNonFungible(t *testing.T, s core.Store) {
	ctx := context.Background()
	owner := []byte{0xaa, 0xbb}

	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		for _, idx := range []string{"1", "2", "3"} {
			if err := tx.SetNonFungibleOwner("0xc0", idx, nil); err != nil {
				return err
			}
		}
		return tx.SetNonFungibleOwner("0xc0", "2", owner)
	}))

	require.NoError(t, s.View(ctx, func(r core.TreasuryReader) error {
		got, held, err := r.NonFungibleOwner("0xc0", "2")
		require.NoError(t, err)
		require.True(t, held)
		require.Equal(t, owner, got)

		got, held, err = r.NonFungibleOwner("0xc0", "1")
		require.NoError(t, err)
		require.True(t, held)
		require.Nil(t, got)

		_, held, err = r.NonFungibleOwner("0xc0", "9")
		require.NoError(t, err)
		require.False(t, held)

		holdings, err := r.NonFungibleHoldings()
		require.NoError(t, err)
		require.Equal(t, []core.NonFungibleHolding{
			{CollectionAddress: "0xc0", TokenIndex: "1"},
			{CollectionAddress: "0xc0", TokenIndex: "3"},
		}, holdings)
		return nil
	}))
}

func testArbitraryKeyBytes(t *testing.T, s core.Store) {
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		if err := tx.SetNonFungibleOwner("a", "b\x00c", nil); err != nil {
			return err
		}
		return tx.SetFungibleBalance("tok\x00en", sdkmath.NewUint(5))
	}))

	require.NoError(t, s.View(ctx, func(r core.TreasuryReader) error {
		_, held, err := r.NonFungibleOwner("a\x00b", "c")
		require.NoError(t, err)
		require.False(t, held)

		_, held, err = r.NonFungibleOwner("a", "b\x00c")
		require.NoError(t, err)
		require.True(t, held)

		holdings, err := r.NonFungibleHoldings()
		require.NoError(t, err)
		require.Equal(t, []core.NonFungibleHolding{{CollectionAddress: "a", TokenIndex: "b\x00c"}}, holdings)

		balances, err := r.FungibleBalances()
		require.NoError(t, err)
		require.Len(t, balances, 1)
		require.Equal(t, "5", balances["tok\x00en"].String())
		return nil
	}))
}

func testDeliveries(t *testing.T, s core.Store) {
	ctx := context.Background()
	deliveries := []core.Delivery{
		{SourceChain: "ethereum", Sequence: 1, BlockHeight: 1, Message: core.NewCustomMessage("increment", 1)},
		{SourceChain: "ethereum", Sequence: 2, BlockHeight: 1, Message: core.NewFungibleTokenTransferMessage("0x1", sdkmath.NewUint(300), "0x3", 2)},
		{SourceChain: "ethereum", Sequence: 10, BlockHeight: 4, Message: core.NewNonFungibleTokenTransferMessage("0xc0", "1", "0x3", 10)},
		{SourceChain: "ethereum-classic", Sequence: 1, BlockHeight: 1, Message: core.NewCustomMessage("reset", 1)},
	}
	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		for _, d := range deliveries {
			if err := tx.RecordDelivery(d); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.View(ctx, func(r core.TreasuryReader) error {
		got, err := r.Deliveries("ethereum")
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, d := range got {
			require.Equal(t, deliveries[i].Sequence, d.Sequence)
			require.Equal(t, deliveries[i].Message.String(), d.Message.String())
		}

		got, err = r.Deliveries("polygon")
		require.NoError(t, err)
		require.Empty(t, got)
		return nil
	}))
}
