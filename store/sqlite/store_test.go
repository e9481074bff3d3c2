package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "colony.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Store { return newTestStore(t) })
}

func TestOpenTwiceKeepsState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "colony.sqlite")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveLightClient(ctx, core.LightClientState{ChainName: "ethereum", Height: 3, LastHeader: core.Header{0x04}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	state, err := s.LoadLightClient(ctx, "ethereum")
	require.NoError(t, err)
	require.EqualValues(t, 3, state.Height)
}

func TestUpdateRollsBackOnPanic(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.Panics(t, func() {
		_ = s.Update(ctx, func(tx core.TreasuryTx) error {
			if err := tx.SetFungibleBalance("0x1", sdkmath.NewUint(1)); err != nil {
				return err
			}
			panic("handler bug")
		})
	})

	// the only pooled connection must be free again
	require.NoError(t, s.Update(ctx, func(tx core.TreasuryTx) error {
		balance, err := tx.FungibleBalance("0x1")
		require.NoError(t, err)
		require.Equal(t, "0", balance.String())
		return tx.SetFungibleBalance("0x2", sdkmath.NewUint(2))
	}))
}

func TestUintMeddler(t *testing.T) {
	m := UintMeddler{}

	v, err := m.PreWrite(sdkmath.NewUint(300))
	require.NoError(t, err)
	require.Equal(t, "300", v)

	_, err = m.PreWrite(sdkmath.Uint{})
	require.Error(t, err)

	target, err := m.PreRead(nil)
	require.NoError(t, err)
	*target.(*string) = "340282366920938463463374607431768211455"
	var u sdkmath.Uint
	require.NoError(t, m.PostRead(&u, target))
	require.Equal(t, "340282366920938463463374607431768211455", u.String())

	*target.(*string) = "-1"
	require.Error(t, m.PostRead(&u, target))
}
