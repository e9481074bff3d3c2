package core

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// LightClientStore persists light client states keyed by tracked chain name.
type LightClientStore interface {
	// LoadLightClient returns ErrNotFound if no state was saved for chainName.
	LoadLightClient(ctx context.Context, chainName string) (*LightClientState, error)
	SaveLightClient(ctx context.Context, state LightClientState) error
}

// Delivery is the receipt of an applied delivery record.
type Delivery struct {
	SourceChain string             `json:"source_chain"`
	Sequence    uint64             `json:"sequence"`
	BlockHeight uint64             `json:"block_height"`
	Message     DeliverableMessage `json:"message"`
}

// TreasuryReader reads a consistent snapshot of treasury state.
type TreasuryReader interface {
	// LastSequence returns 0 when nothing from chain was applied yet.
	LastSequence(chain string) (uint64, error)
	FungibleBalance(tokenID string) (sdkmath.Uint, error)
	FungibleBalances() (map[string]sdkmath.Uint, error)
	// AccountBalance returns what was paid out of the treasury to account.
	AccountBalance(tokenID string, account []byte) (sdkmath.Uint, error)
	// NonFungibleOwner returns (nil, true) when the treasury itself holds the asset.
	NonFungibleOwner(collection, index string) (owner []byte, held bool, err error)
	NonFungibleHoldings() ([]NonFungibleHolding, error)
	ContractState(contract, key string) (string, bool, error)
	Deliveries(chain string) ([]Delivery, error)
}

// TreasuryTx is a read-write view whose writes become visible only when the
// enclosing TreasuryStore.Update commits.
type TreasuryTx interface {
	TreasuryReader
	SetLastSequence(chain string, sequence uint64) error
	SetFungibleBalance(tokenID string, amount sdkmath.Uint) error
	SetAccountBalance(tokenID string, account []byte, amount sdkmath.Uint) error
	// SetNonFungibleOwner moves an asset; a nil owner returns it to the treasury.
	SetNonFungibleOwner(collection, index string, owner []byte) error
	SetContractState(contract, key, value string) error
	RecordDelivery(d Delivery) error
}

// TreasuryStore is the transactional backing store of a Treasury.
type TreasuryStore interface {
	// Update runs fn in a transaction that is committed iff fn returns nil.
	Update(ctx context.Context, fn func(tx TreasuryTx) error) error
	// View runs fn against a read-only snapshot.
	View(ctx context.Context, fn func(r TreasuryReader) error) error
}

// Store persists both the light client and the treasury of a destination chain.
type Store interface {
	LightClientStore
	TreasuryStore
	Ping(ctx context.Context) error
	Close() error
}
