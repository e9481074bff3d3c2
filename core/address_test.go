package core

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestHexAddressCodec(t *testing.T) {
	codec := HexAddressCodec{}
	cases := []struct {
		address string
		want    string
		ok      bool
	}{
		{"0x3", "0x0000000000000000000000000000000000000003", true},
		{"0x52908400098527886E0F7030069857D2E4169EE7", "0x52908400098527886E0F7030069857D2E4169EE7", true},
		{"52908400098527886E0F7030069857D2E4169EE7", "0x52908400098527886E0F7030069857D2E4169EE7", true},
		{"0x", "", false},
		{"alice", "", false},
		{"0xzz", "", false},
		{"0x52908400098527886E0F7030069857D2E4169EE700", "", false},
	}
	for _, c := range cases {
		t.Run(c.address, func(t *testing.T) {
			account, err := codec.Decode(c.address)
			if !c.ok {
				require.True(t, errors.Is(err, ErrInvalidAddress), err)
				return
			}
			require.NoError(t, err)
			encoded, err := codec.Encode(account)
			require.NoError(t, err)
			require.Equal(t, c.want, encoded)
		})
	}
}

func TestBech32AddressCodec(t *testing.T) {
	codec := Bech32AddressCodec{Prefix: "colony"}
	account := []byte("receiver-account-0001")

	address, err := codec.Encode(account)
	require.NoError(t, err)
	decoded, err := codec.Decode(address)
	require.NoError(t, err)
	require.Equal(t, account, decoded)

	other, err := Bech32AddressCodec{Prefix: "cosmos"}.Encode(account)
	require.NoError(t, err)
	_, err = codec.Decode(other)
	require.True(t, errors.Is(err, ErrInvalidAddress), err)

	_, err = codec.Decode("0x3")
	require.True(t, errors.Is(err, ErrInvalidAddress), err)
}

func TestNewAddressCodec(t *testing.T) {
	codec, err := NewAddressCodec("", "")
	require.NoError(t, err)
	require.IsType(t, HexAddressCodec{}, codec)

	codec, err = NewAddressCodec("bech32", "colony")
	require.NoError(t, err)
	require.Equal(t, Bech32AddressCodec{Prefix: "colony"}, codec)

	_, err = NewAddressCodec("bech32", "")
	require.Error(t, err)
	_, err = NewAddressCodec("ss58", "")
	require.Error(t, err)
}
