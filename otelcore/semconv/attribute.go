package semconv

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	// ChainNameKey represents the name of a destination chain.
	//
	// Type: string
	// RequirementLevel: Recommended
	// Stability: Development
	// Examples: "astar"
	ChainNameKey = attribute.Key("chain_name")

	// SourceChainKey represents the name of the chain a light client tracks.
	//
	// Type: string
	// RequirementLevel: Recommended
	// Stability: Development
	// Examples: "ethereum"
	SourceChainKey = attribute.Key("source_chain")

	// ContractKey represents the destination contract of a custom order.
	//
	// Type: string
	// RequirementLevel: Optional
	// Stability: Development
	// Examples: "counter"
	ContractKey = attribute.Key("contract")

	// HeightKey represents a light client height.
	//
	// Type: int
	// RequirementLevel: Optional
	// Stability: Development
	// Examples: 42
	HeightKey = attribute.Key("height")

	// SequenceKey represents the contract sequence of a delivery record.
	//
	// Type: int
	// RequirementLevel: Optional
	// Stability: Development
	// Examples: 1
	SequenceKey = attribute.Key("sequence")
)
