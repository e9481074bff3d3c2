package kvstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/errors"
)

// A key is its prefix, a NUL byte, and every component preceded by its
// big-endian uint32 length, so components may contain any byte.
const sep = 0x00

var (
	prefixLightClient   = []byte("lc")
	prefixSequence      = []byte("seq")
	prefixFungible      = []byte("ft")
	prefixAccount       = []byte("acct")
	prefixNonFungible   = []byte("nft")
	prefixContractState = []byte("cs")
	prefixDelivery      = []byte("dlv")

	pingKey = []byte("ping")
)

func makeKey(prefix []byte, parts ...string) []byte {
	key := append(bytes.Clone(prefix), sep)
	for _, p := range parts {
		key = binary.BigEndian.AppendUint32(key, uint32(len(p)))
		key = append(key, p...)
	}
	return key
}

// prefixOf returns the key prefix under which every key made from prefix and
// parts followed by at least one more part lives.
func prefixOf(prefix []byte, parts ...string) []byte {
	return makeKey(prefix, parts...)
}

// splitKey returns the components of a key made by makeKey.
func splitKey(key []byte) ([][]byte, error) {
	i := bytes.IndexByte(key, sep)
	if i < 0 {
		return nil, errors.Newf("key %q has no prefix separator", key)
	}
	rest := key[i+1:]
	var parts [][]byte
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, errors.Newf("truncated key %q", key)
		}
		n := binary.BigEndian.Uint32(rest)
		rest = rest[4:]
		if uint64(len(rest)) < uint64(n) {
			return nil, errors.Newf("truncated key %q", key)
		}
		parts = append(parts, rest[:n])
		rest = rest[n:]
	}
	return parts, nil
}

func lightClientKey(chain string) []byte { return makeKey(prefixLightClient, chain) }

func sequenceKey(chain string) []byte { return makeKey(prefixSequence, chain) }

func fungibleKey(tokenID string) []byte { return makeKey(prefixFungible, tokenID) }

func accountKey(tokenID string, account []byte) []byte {
	return makeKey(prefixAccount, tokenID, fmt.Sprintf("%x", account))
}

func nonFungibleKey(collection, index string) []byte {
	return makeKey(prefixNonFungible, collection, index)
}

func contractStateKey(contract, key string) []byte {
	return makeKey(prefixContractState, contract, key)
}

func deliveryKey(chain string, sequence uint64) []byte {
	return makeKey(prefixDelivery, chain, fmt.Sprintf("%020d", sequence))
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
