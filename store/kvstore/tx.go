package kvstore

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"sort"

	sdkmath "cosmossdk.io/math"
	dbm "github.com/cometbft/cometbft-db"
	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

// tx reads through a write overlay to the underlying database.
type tx struct {
	db      dbm.DB
	overlay map[string][]byte
}

var _ core.TreasuryTx = (*tx)(nil)

func newTx(db dbm.DB) *tx {
	return &tx{db: db, overlay: make(map[string][]byte)}
}

func (t *tx) get(key []byte) ([]byte, error) {
	if v, ok := t.overlay[string(key)]; ok {
		return v, nil
	}
	return t.db.Get(key)
}

func (t *tx) set(key, value []byte) {
	t.overlay[string(key)] = value
}

type entry struct {
	key   []byte
	value []byte
}

// iterate returns every entry under prefix in key order, overlay included.
func (t *tx) iterate(prefix []byte) ([]entry, error) {
	merged := make(map[string][]byte)
	it, err := t.db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	for ; it.Valid(); it.Next() {
		merged[string(it.Key())] = bytes.Clone(it.Value())
	}
	if err := it.Error(); err != nil {
		it.Close()
		return nil, err
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	for k, v := range t.overlay {
		if bytes.HasPrefix([]byte(k), prefix) {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]entry, len(keys))
	for i, k := range keys {
		entries[i] = entry{key: []byte(k), value: merged[k]}
	}
	return entries, nil
}

func (t *tx) commit() error {
	if len(t.overlay) == 0 {
		return nil
	}
	b := t.db.NewBatch()
	defer b.Close()
	for k, v := range t.overlay {
		if err := b.Set([]byte(k), v); err != nil {
			return err
		}
	}
	return b.WriteSync()
}

func (t *tx) getUint(key []byte) (sdkmath.Uint, error) {
	bz, err := t.get(key)
	if err != nil {
		return sdkmath.Uint{}, err
	}
	if len(bz) == 0 {
		return sdkmath.ZeroUint(), nil
	}
	return sdkmath.ParseUint(string(bz))
}

func (t *tx) LastSequence(chain string) (uint64, error) {
	bz, err := t.get(sequenceKey(chain))
	if err != nil || len(bz) == 0 {
		return 0, err
	}
	return binary.BigEndian.Uint64(bz), nil
}

func (t *tx) FungibleBalance(tokenID string) (sdkmath.Uint, error) {
	return t.getUint(fungibleKey(tokenID))
}

func (t *tx) FungibleBalances() (map[string]sdkmath.Uint, error) {
	entries, err := t.iterate(prefixOf(prefixFungible))
	if err != nil {
		return nil, err
	}
	balances := make(map[string]sdkmath.Uint, len(entries))
	for _, e := range entries {
		amount, err := sdkmath.ParseUint(string(e.value))
		if err != nil {
			return nil, errors.Wrapf(err, "corrupted balance under %q", e.key)
		}
		parts, err := splitKey(e.key)
		if err != nil || len(parts) != 1 {
			return nil, errors.Newf("corrupted balance key %q", e.key)
		}
		balances[string(parts[0])] = amount
	}
	return balances, nil
}

func (t *tx) AccountBalance(tokenID string, account []byte) (sdkmath.Uint, error) {
	return t.getUint(accountKey(tokenID, account))
}

// An asset entry holds "-" while the treasury has it and the hex encoded
// owner once it was paid out.
const treasuryOwner = "-"

func (t *tx) NonFungibleOwner(collection, index string) ([]byte, bool, error) {
	bz, err := t.get(nonFungibleKey(collection, index))
	if err != nil || len(bz) == 0 {
		return nil, false, err
	}
	if string(bz) == treasuryOwner {
		return nil, true, nil
	}
	owner, err := hex.DecodeString(string(bz))
	if err != nil {
		return nil, false, errors.Wrap(err, "corrupted asset owner")
	}
	return owner, true, nil
}

func (t *tx) NonFungibleHoldings() ([]core.NonFungibleHolding, error) {
	entries, err := t.iterate(prefixOf(prefixNonFungible))
	if err != nil {
		return nil, err
	}
	var holdings []core.NonFungibleHolding
	for _, e := range entries {
		if string(e.value) != treasuryOwner {
			continue
		}
		parts, err := splitKey(e.key)
		if err != nil || len(parts) != 2 {
			return nil, errors.Newf("corrupted asset key %q", e.key)
		}
		holdings = append(holdings, core.NonFungibleHolding{
			CollectionAddress: string(parts[0]),
			TokenIndex:        string(parts[1]),
		})
	}
	return holdings, nil
}

func (t *tx) ContractState(contract, key string) (string, bool, error) {
	bz, err := t.get(contractStateKey(contract, key))
	if err != nil || bz == nil {
		return "", false, err
	}
	return string(bz), true, nil
}

func (t *tx) Deliveries(chain string) ([]core.Delivery, error) {
	entries, err := t.iterate(prefixOf(prefixDelivery, chain))
	if err != nil {
		return nil, err
	}
	deliveries := make([]core.Delivery, 0, len(entries))
	for _, e := range entries {
		var d core.Delivery
		if err := json.Unmarshal(e.value, &d); err != nil {
			return nil, errors.Wrap(err, "unmarshalling delivery")
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

func (t *tx) SetLastSequence(chain string, sequence uint64) error {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, sequence)
	t.set(sequenceKey(chain), bz)
	return nil
}

func (t *tx) SetFungibleBalance(tokenID string, amount sdkmath.Uint) error {
	t.set(fungibleKey(tokenID), []byte(amount.String()))
	return nil
}

func (t *tx) SetAccountBalance(tokenID string, account []byte, amount sdkmath.Uint) error {
	t.set(accountKey(tokenID, account), []byte(amount.String()))
	return nil
}

func (t *tx) SetNonFungibleOwner(collection, index string, owner []byte) error {
	v := treasuryOwner
	if owner != nil {
		v = hex.EncodeToString(owner)
	}
	t.set(nonFungibleKey(collection, index), []byte(v))
	return nil
}

func (t *tx) SetContractState(contract, key, value string) error {
	// cometbft-db rejects nil values
	t.set(contractStateKey(contract, key), append([]byte{}, value...))
	return nil
}

func (t *tx) RecordDelivery(d core.Delivery) error {
	bz, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "marshalling delivery")
	}
	t.set(deliveryKey(d.SourceChain, d.Sequence), bz)
	return nil
}
