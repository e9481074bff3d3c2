package signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// SignerConfig defines a signer configuration and its builder
type SignerConfig interface {
	Build() (Signer, error)
	Validate() error
}

// Signer signs 32-byte digests with a secp256k1 key.
type Signer interface {
	Sign(ctx context.Context, digest []byte) (signature []byte, err error)
	GetPublicKey(ctx context.Context) ([]byte, error)
	Address() common.Address
}
