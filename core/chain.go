package core

//go:generate mockgen -source=chain.go -destination=mock_chain.go -package core

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// ContractType identifies the role of a contract deployed on a destination chain.
type ContractType string

const (
	ContractTypeLightClient ContractType = "LightClient"
	ContractTypeTreasury    ContractType = "Treasury"
)

// Block is the latest block of a chain as seen by its backend.
type Block struct {
	Height    uint64 `json:"height" yaml:"height"`
	Hash      string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Timestamp uint64 `json:"timestamp" yaml:"timestamp"`
}

// ContractInfo describes a bridge contract. For a light client the sequence
// is its height; for a treasury it is the last applied contract sequence.
type ContractInfo struct {
	Address      string       `json:"address" yaml:"address"`
	ContractType ContractType `json:"contract_type" yaml:"contract_type"`
	Sequence     uint64       `json:"sequence" yaml:"sequence"`
}

// AccountInfo is the relayer account on a destination chain.
type AccountInfo struct {
	Address string       `json:"address" yaml:"address"`
	Balance sdkmath.Uint `json:"balance" yaml:"balance"`
}

// NonFungibleHolding identifies a non-fungible asset held by a treasury.
type NonFungibleHolding struct {
	CollectionAddress string `json:"collection_address" yaml:"collection_address"`
	TokenIndex        string `json:"token_index" yaml:"token_index"`
}

// Chain is the uniform surface over a destination chain that hosts a light
// client and a treasury.
type Chain interface {
	// ChainName returns the name of the chain
	ChainName() string

	// LastBlock returns the latest block of the chain
	LastBlock(ctx context.Context) (*Block, error)

	// CheckConnection returns a *ConnectionError if the backend is unreachable
	CheckConnection(ctx context.Context) error

	// ContractList returns the bridge contracts deployed on the chain
	ContractList(ctx context.Context) ([]ContractInfo, error)

	// RelayerAccountInfo returns the account used to submit relays
	RelayerAccountInfo(ctx context.Context) (*AccountInfo, error)

	// LightClientHeader returns the last header accepted by the light client
	LightClientHeader(ctx context.Context) (Header, error)

	// TreasuryFungibleTokenBalance returns the treasury balance of every token
	TreasuryFungibleTokenBalance(ctx context.Context) (map[string]sdkmath.Uint, error)

	// TreasuryNonFungibleTokenBalance returns the non-fungible assets held by the treasury
	TreasuryNonFungibleTokenBalance(ctx context.Context) ([]NonFungibleHolding, error)

	// UpdateLightClient advances the light client by one finalized header
	UpdateLightClient(ctx context.Context, header Header, proof BlockFinalizationProof) error

	// TransferTreasuryFungibleToken releases fungible tokens for a verified delivery record
	TransferTreasuryFungibleToken(ctx context.Context, message FungibleTokenTransfer, blockHeight uint64, proof MerkleProof) error

	// TransferTreasuryNonFungibleToken releases a non-fungible asset for a verified delivery record
	TransferTreasuryNonFungibleToken(ctx context.Context, message NonFungibleTokenTransfer, blockHeight uint64, proof MerkleProof) error

	// DeliverCustomOrder hands a verified custom message to the named contract
	DeliverCustomOrder(ctx context.Context, contractName string, message Custom, blockHeight uint64, proof MerkleProof) error
}

// Deliver submits a verified message to chain through the adapter method
// matching its variant.
func Deliver(ctx context.Context, chain Chain, contractName string, message DeliverableMessage, blockHeight uint64, proof MerkleProof) error {
	switch message.Kind() {
	case MessageKindFungibleTokenTransfer:
		return chain.TransferTreasuryFungibleToken(ctx, *message.FungibleTokenTransfer, blockHeight, proof)
	case MessageKindNonFungibleTokenTransfer:
		return chain.TransferTreasuryNonFungibleToken(ctx, *message.NonFungibleTokenTransfer, blockHeight, proof)
	case MessageKindCustom:
		return chain.DeliverCustomOrder(ctx, contractName, *message.Custom, blockHeight, proof)
	default:
		return ErrNotSupported.Wrap("empty deliverable message")
	}
}
