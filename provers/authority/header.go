package authority

import (
	"crypto/ecdsa"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/hyperledger-labs/yui-colony/core"
)

// SignatureLength is the length of a recoverable secp256k1 signature.
const SignatureLength = crypto.SignatureLength

// Header is the header layout certified by an authority set.
type Header struct {
	ParentHash  common.Hash
	Number      uint64
	MessageRoot common.Hash
	Time        uint64
}

// EncodeHeader returns the RLP encoding of h.
func EncodeHeader(h *Header) (core.Header, error) {
	bz, err := rlp.EncodeToBytes(h)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode header")
	}
	return bz, nil
}

// DecodeHeader parses an RLP encoded header.
func DecodeHeader(bz core.Header) (*Header, error) {
	var h Header
	if err := rlp.DecodeBytes(bz, &h); err != nil {
		return nil, errors.Wrapf(core.ErrInvalidProof, "malformed header: %v", err)
	}
	return &h, nil
}

// HeaderHash returns the hash a child header refers to as its parent.
func HeaderHash(bz core.Header) common.Hash {
	return crypto.Keccak256Hash(bz)
}

// SigningHash returns the digest authorities sign to finalize header on
// chainName. The chain name is part of the digest so a signature cannot be
// replayed on another chain.
func SigningHash(chainName string, header core.Header) common.Hash {
	return crypto.Keccak256Hash([]byte(chainName), header)
}

// SignHeader returns key's signature finalizing header on chainName.
func SignHeader(chainName string, header core.Header, key *ecdsa.PrivateKey) ([]byte, error) {
	hash := SigningHash(chainName, header)
	return crypto.Sign(hash.Bytes(), key)
}

// EncodeFinalityProof returns the RLP list of signatures.
func EncodeFinalityProof(signatures [][]byte) (core.BlockFinalizationProof, error) {
	bz, err := rlp.EncodeToBytes(signatures)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode finality proof")
	}
	return bz, nil
}

// DecodeFinalityProof parses an RLP list of signatures.
func DecodeFinalityProof(bz core.BlockFinalizationProof) ([][]byte, error) {
	var signatures [][]byte
	if err := rlp.DecodeBytes(bz, &signatures); err != nil {
		return nil, errors.Wrapf(core.ErrInvalidProof, "malformed finality proof: %v", err)
	}
	return signatures, nil
}
