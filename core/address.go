package core

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/ethereum/go-ethereum/common"
)

// AddressCodec converts receiver addresses between their textual and raw
// forms on a destination chain.
type AddressCodec interface {
	Decode(address string) ([]byte, error)
	Encode(account []byte) (string, error)
}

// HexAddressCodec handles 0x-prefixed hex addresses of up to 20 bytes. Short
// addresses are left-padded with zeros, so "0x3" is a valid address.
type HexAddressCodec struct{}

var _ AddressCodec = HexAddressCodec{}

func (HexAddressCodec) Decode(address string) ([]byte, error) {
	if !common.IsHexAddress(address) {
		digits := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
		if len(digits) == 0 || len(digits) > 2*common.AddressLength || len(digits) == len(address) {
			return nil, errors.Wrapf(ErrInvalidAddress, "%q is not a 0x-prefixed hex address", address)
		}
		padded := "0x" + strings.Repeat("0", 2*common.AddressLength-len(digits)) + digits
		if !common.IsHexAddress(padded) {
			return nil, errors.Wrapf(ErrInvalidAddress, "%q is not a 0x-prefixed hex address", address)
		}
		address = padded
	}
	return common.HexToAddress(address).Bytes(), nil
}

func (HexAddressCodec) Encode(account []byte) (string, error) {
	if len(account) > common.AddressLength {
		return "", errors.Wrapf(ErrInvalidAddress, "account of %d bytes", len(account))
	}
	return common.BytesToAddress(account).Hex(), nil
}

// Bech32AddressCodec handles bech32 addresses with a fixed human readable part.
type Bech32AddressCodec struct {
	Prefix string
}

var _ AddressCodec = Bech32AddressCodec{}

func (c Bech32AddressCodec) Decode(address string) ([]byte, error) {
	hrp, bz, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q: %v", address, err)
	}
	if hrp != c.Prefix {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q: expected prefix %q, got %q", address, c.Prefix, hrp)
	}
	if len(bz) == 0 {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q: empty account", address)
	}
	return bz, nil
}

func (c Bech32AddressCodec) Encode(account []byte) (string, error) {
	s, err := bech32.ConvertAndEncode(c.Prefix, account)
	if err != nil {
		return "", errors.Wrap(ErrInvalidAddress, err.Error())
	}
	return s, nil
}

// NewAddressCodec returns the codec named by kind ("hex" or "bech32").
func NewAddressCodec(kind, bech32Prefix string) (AddressCodec, error) {
	switch kind {
	case "", "hex":
		return HexAddressCodec{}, nil
	case "bech32":
		if bech32Prefix == "" {
			return nil, errors.New("bech32 address codec requires a prefix")
		}
		return Bech32AddressCodec{Prefix: bech32Prefix}, nil
	default:
		return nil, errors.Newf("unknown address codec %q", kind)
	}
}
