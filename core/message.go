package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MaxAmountBits is the width of the amount field in a delivery record.
const MaxAmountBits = 128

type (
	// Header is an encoded block header of the tracked chain. Its layout is
	// defined by the prover that verifies it.
	Header []byte
	// BlockFinalizationProof attests that a header is finalized.
	BlockFinalizationProof []byte
	// MerkleProof attests that a delivery record is included in a header.
	MerkleProof []byte
)

func (h Header) MarshalText() ([]byte, error) { return hexutil.Bytes(h).MarshalText() }

func (h *Header) UnmarshalText(input []byte) error {
	return (*hexutil.Bytes)(h).UnmarshalText(input)
}

func (p BlockFinalizationProof) MarshalText() ([]byte, error) { return hexutil.Bytes(p).MarshalText() }

func (p *BlockFinalizationProof) UnmarshalText(input []byte) error {
	return (*hexutil.Bytes)(p).UnmarshalText(input)
}

func (p MerkleProof) MarshalText() ([]byte, error) { return hexutil.Bytes(p).MarshalText() }

func (p *MerkleProof) UnmarshalText(input []byte) error {
	return (*hexutil.Bytes)(p).UnmarshalText(input)
}

// MessageKind names the variant held by a DeliverableMessage. The values are
// the variant tags used on the wire.
type MessageKind string

const (
	MessageKindFungibleTokenTransfer    MessageKind = "FungibleTokenTransfer"
	MessageKindNonFungibleTokenTransfer MessageKind = "NonFungibleTokenTransfer"
	MessageKindCustom                   MessageKind = "Custom"
)

type FungibleTokenTransfer struct {
	TokenID          string       `json:"token_id"`
	Amount           sdkmath.Uint `json:"amount"`
	ReceiverAddress  string       `json:"receiver_address"`
	ContractSequence uint64       `json:"contract_sequence"`
}

type NonFungibleTokenTransfer struct {
	CollectionAddress string `json:"collection_address"`
	TokenIndex        string `json:"token_index"`
	ReceiverAddress   string `json:"receiver_address"`
	ContractSequence  uint64 `json:"contract_sequence"`
}

type Custom struct {
	Message          string `json:"message"`
	ContractSequence uint64 `json:"contract_sequence"`
}

// DeliverableMessage is an instruction emitted on a source chain for
// execution on the destination chain. Exactly one variant is set.
type DeliverableMessage struct {
	FungibleTokenTransfer    *FungibleTokenTransfer
	NonFungibleTokenTransfer *NonFungibleTokenTransfer
	Custom                   *Custom
}

func NewFungibleTokenTransferMessage(tokenID string, amount sdkmath.Uint, receiver string, sequence uint64) DeliverableMessage {
	return DeliverableMessage{FungibleTokenTransfer: &FungibleTokenTransfer{
		TokenID:          tokenID,
		Amount:           amount,
		ReceiverAddress:  receiver,
		ContractSequence: sequence,
	}}
}

func NewNonFungibleTokenTransferMessage(collection, index, receiver string, sequence uint64) DeliverableMessage {
	return DeliverableMessage{NonFungibleTokenTransfer: &NonFungibleTokenTransfer{
		CollectionAddress: collection,
		TokenIndex:        index,
		ReceiverAddress:   receiver,
		ContractSequence:  sequence,
	}}
}

func NewCustomMessage(message string, sequence uint64) DeliverableMessage {
	return DeliverableMessage{Custom: &Custom{Message: message, ContractSequence: sequence}}
}

// Kind returns the variant held by the message, or "" when none is set.
func (m DeliverableMessage) Kind() MessageKind {
	switch {
	case m.FungibleTokenTransfer != nil:
		return MessageKindFungibleTokenTransfer
	case m.NonFungibleTokenTransfer != nil:
		return MessageKindNonFungibleTokenTransfer
	case m.Custom != nil:
		return MessageKindCustom
	default:
		return ""
	}
}

// ContractSequence returns the source contract's emission counter carried by
// the message.
func (m DeliverableMessage) ContractSequence() uint64 {
	switch m.Kind() {
	case MessageKindFungibleTokenTransfer:
		return m.FungibleTokenTransfer.ContractSequence
	case MessageKindNonFungibleTokenTransfer:
		return m.NonFungibleTokenTransfer.ContractSequence
	case MessageKindCustom:
		return m.Custom.ContractSequence
	default:
		return 0
	}
}

// ValidateBasic performs stateless checks on the message.
func (m DeliverableMessage) ValidateBasic() error {
	n := 0
	for _, set := range []bool{m.FungibleTokenTransfer != nil, m.NonFungibleTokenTransfer != nil, m.Custom != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return errors.Wrapf(ErrInvalidMessage, "exactly one variant must be set: got %d", n)
	}
	if m.ContractSequence() == 0 {
		return errors.Wrap(ErrInvalidMessage, "contract sequence starts at 1")
	}
	switch m.Kind() {
	case MessageKindFungibleTokenTransfer:
		ft := m.FungibleTokenTransfer
		if ft.TokenID == "" {
			return errors.Wrap(ErrInvalidMessage, "empty token id")
		}
		if ft.Amount.IsNil() {
			return errors.Wrap(ErrInvalidMessage, "missing amount")
		}
		if ft.Amount.BigInt().BitLen() > MaxAmountBits {
			return errors.Wrapf(ErrInvalidMessage, "amount exceeds %d bits", MaxAmountBits)
		}
	case MessageKindNonFungibleTokenTransfer:
		nft := m.NonFungibleTokenTransfer
		if nft.CollectionAddress == "" || nft.TokenIndex == "" {
			return errors.Wrap(ErrInvalidMessage, "empty collection address or token index")
		}
	}
	return nil
}

func (m DeliverableMessage) String() string {
	switch m.Kind() {
	case MessageKindFungibleTokenTransfer:
		ft := m.FungibleTokenTransfer
		amount := "<nil>"
		if !ft.Amount.IsNil() {
			amount = ft.Amount.String()
		}
		return fmt.Sprintf("FungibleTokenTransfer(token=%s amount=%s receiver=%s seq=%d)",
			ft.TokenID, amount, ft.ReceiverAddress, ft.ContractSequence)
	case MessageKindNonFungibleTokenTransfer:
		nft := m.NonFungibleTokenTransfer
		return fmt.Sprintf("NonFungibleTokenTransfer(collection=%s index=%s receiver=%s seq=%d)",
			nft.CollectionAddress, nft.TokenIndex, nft.ReceiverAddress, nft.ContractSequence)
	case MessageKindCustom:
		return fmt.Sprintf("Custom(message=%q seq=%d)", m.Custom.Message, m.Custom.ContractSequence)
	default:
		return "DeliverableMessage(<empty>)"
	}
}

// MarshalJSON encodes the message as an externally tagged union, e.g.
// {"Custom":{"message":"increment","contract_sequence":1}}.
func (m DeliverableMessage) MarshalJSON() ([]byte, error) {
	var v any
	switch m.Kind() {
	case MessageKindFungibleTokenTransfer:
		v = m.FungibleTokenTransfer
	case MessageKindNonFungibleTokenTransfer:
		v = m.NonFungibleTokenTransfer
	case MessageKindCustom:
		v = m.Custom
	default:
		return nil, errors.Wrap(ErrInvalidMessage, "no variant set")
	}
	return json.Marshal(map[MessageKind]any{m.Kind(): v})
}

func (m *DeliverableMessage) UnmarshalJSON(bz []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(bz, &tagged); err != nil {
		return errors.Wrap(ErrInvalidMessage, err.Error())
	}
	if len(tagged) != 1 {
		return errors.Wrapf(ErrInvalidMessage, "expected exactly one variant tag: got %d", len(tagged))
	}
	*m = DeliverableMessage{}
	for tag, body := range tagged {
		var err error
		switch MessageKind(tag) {
		case MessageKindFungibleTokenTransfer:
			m.FungibleTokenTransfer = &FungibleTokenTransfer{}
			err = json.Unmarshal(body, m.FungibleTokenTransfer)
		case MessageKindNonFungibleTokenTransfer:
			m.NonFungibleTokenTransfer = &NonFungibleTokenTransfer{}
			err = json.Unmarshal(body, m.NonFungibleTokenTransfer)
		case MessageKindCustom:
			m.Custom = &Custom{}
			err = json.Unmarshal(body, m.Custom)
		default:
			return errors.Wrapf(ErrInvalidMessage, "unknown variant %q", tag)
		}
		if err != nil {
			return errors.Wrapf(ErrInvalidMessage, "failed to decode %s: %v", tag, err)
		}
	}
	return nil
}

type fungibleTokenTransferJSON struct {
	TokenID          string      `json:"token_id"`
	Amount           json.Number `json:"amount"`
	ReceiverAddress  string      `json:"receiver_address"`
	ContractSequence uint64      `json:"contract_sequence"`
}

// MarshalJSON writes the amount as a bare JSON integer.
func (ft FungibleTokenTransfer) MarshalJSON() ([]byte, error) {
	amount := "0"
	if !ft.Amount.IsNil() {
		amount = ft.Amount.String()
	}
	return json.Marshal(fungibleTokenTransferJSON{
		TokenID:          ft.TokenID,
		Amount:           json.Number(amount),
		ReceiverAddress:  ft.ReceiverAddress,
		ContractSequence: ft.ContractSequence,
	})
}

// UnmarshalJSON accepts the amount either as a bare integer or as a decimal
// string.
func (ft *FungibleTokenTransfer) UnmarshalJSON(bz []byte) error {
	var raw struct {
		fungibleTokenTransferJSON
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(bz, &raw); err != nil {
		return err
	}
	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return err
	}
	*ft = FungibleTokenTransfer{
		TokenID:          raw.TokenID,
		Amount:           amount,
		ReceiverAddress:  raw.ReceiverAddress,
		ContractSequence: raw.ContractSequence,
	}
	return nil
}

func parseAmount(raw json.RawMessage) (sdkmath.Uint, error) {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	if s == "" {
		return sdkmath.Uint{}, errors.New("missing amount")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return sdkmath.Uint{}, errors.Newf("invalid amount %q", s)
	}
	if n.BitLen() > MaxAmountBits {
		return sdkmath.Uint{}, errors.Newf("amount %s exceeds %d bits", s, MaxAmountBits)
	}
	return sdkmath.NewUintFromBigInt(n), nil
}

// MessageDeliveryRecord binds a message to the chain it originated from. It
// is the payload committed to by the source chain's message root.
type MessageDeliveryRecord struct {
	Chain   string             `json:"chain"`
	Message DeliverableMessage `json:"message"`
}

// Bytes returns the canonical JSON encoding of the record.
func (r MessageDeliveryRecord) Bytes() ([]byte, error) {
	return json.Marshal(r)
}
