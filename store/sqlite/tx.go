package sqlite

import (
	"database/sql"
	"encoding/hex"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/russross/meddler"

	"github.com/hyperledger-labs/yui-colony/core"
)

type balanceRow struct {
	TokenID string       `meddler:"token_id"`
	Amount  sdkmath.Uint `meddler:"amount,uint"`
}

type accountBalanceRow struct {
	TokenID string       `meddler:"token_id"`
	Account string       `meddler:"account"`
	Amount  sdkmath.Uint `meddler:"amount,uint"`
}

type nonFungibleRow struct {
	Collection string `meddler:"collection"`
	TokenIndex string `meddler:"token_index"`
	// empty while the treasury holds the asset
	Owner string `meddler:"owner,zeroisnull"`
}

type deliveryRow struct {
	SourceChain string                  `meddler:"source_chain"`
	Sequence    int64                   `meddler:"sequence"`
	BlockHeight int64                   `meddler:"block_height"`
	Message     core.DeliverableMessage `meddler:"message,json"`
}

type tx struct {
	q meddler.DB
}

var _ core.TreasuryTx = (*tx)(nil)

func (t *tx) LastSequence(chain string) (uint64, error) {
	var seq int64
	err := t.q.QueryRow("SELECT last_sequence FROM sequence WHERE chain_name = $1;", chain).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return uint64(seq), err
}

func (t *tx) FungibleBalance(tokenID string) (sdkmath.Uint, error) {
	var row balanceRow
	err := meddler.QueryRow(t.q, &row, "SELECT * FROM fungible_balance WHERE token_id = $1;", tokenID)
	if errors.Is(err, sql.ErrNoRows) {
		return sdkmath.ZeroUint(), nil
	}
	return row.Amount, err
}

func (t *tx) FungibleBalances() (map[string]sdkmath.Uint, error) {
	var rows []*balanceRow
	if err := meddler.QueryAll(t.q, &rows, "SELECT * FROM fungible_balance ORDER BY token_id;"); err != nil {
		return nil, err
	}
	balances := make(map[string]sdkmath.Uint, len(rows))
	for _, r := range rows {
		balances[r.TokenID] = r.Amount
	}
	return balances, nil
}

func (t *tx) AccountBalance(tokenID string, account []byte) (sdkmath.Uint, error) {
	var row accountBalanceRow
	err := meddler.QueryRow(t.q, &row, "SELECT * FROM account_balance WHERE token_id = $1 AND account = $2;",
		tokenID, hex.EncodeToString(account))
	if errors.Is(err, sql.ErrNoRows) {
		return sdkmath.ZeroUint(), nil
	}
	return row.Amount, err
}

func (t *tx) NonFungibleOwner(collection, index string) ([]byte, bool, error) {
	var row nonFungibleRow
	err := meddler.QueryRow(t.q, &row, "SELECT * FROM non_fungible WHERE collection = $1 AND token_index = $2;",
		collection, index)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case row.Owner == "":
		return nil, true, nil
	}
	owner, err := hex.DecodeString(row.Owner)
	if err != nil {
		return nil, false, errors.Wrap(err, "corrupted asset owner")
	}
	return owner, true, nil
}

func (t *tx) NonFungibleHoldings() ([]core.NonFungibleHolding, error) {
	var rows []*nonFungibleRow
	if err := meddler.QueryAll(t.q, &rows,
		"SELECT * FROM non_fungible WHERE owner IS NULL ORDER BY collection, token_index;"); err != nil {
		return nil, err
	}
	var holdings []core.NonFungibleHolding
	for _, r := range rows {
		holdings = append(holdings, core.NonFungibleHolding{CollectionAddress: r.Collection, TokenIndex: r.TokenIndex})
	}
	return holdings, nil
}

func (t *tx) ContractState(contract, key string) (string, bool, error) {
	var value string
	err := t.q.QueryRow("SELECT value FROM contract_state WHERE contract = $1 AND state_key = $2;", contract, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return value, true, nil
}

func (t *tx) Deliveries(chain string) ([]core.Delivery, error) {
	var rows []*deliveryRow
	if err := meddler.QueryAll(t.q, &rows,
		"SELECT * FROM delivery WHERE source_chain = $1 ORDER BY sequence;", chain); err != nil {
		return nil, err
	}
	deliveries := make([]core.Delivery, 0, len(rows))
	for _, r := range rows {
		deliveries = append(deliveries, core.Delivery{
			SourceChain: r.SourceChain,
			Sequence:    uint64(r.Sequence),
			BlockHeight: uint64(r.BlockHeight),
			Message:     r.Message,
		})
	}
	return deliveries, nil
}

func (t *tx) SetLastSequence(chain string, sequence uint64) error {
	_, err := t.q.Exec(`
		INSERT INTO sequence (chain_name, last_sequence) VALUES ($1, $2)
		ON CONFLICT (chain_name) DO UPDATE SET last_sequence = excluded.last_sequence;`,
		chain, int64(sequence))
	return err
}

func (t *tx) SetFungibleBalance(tokenID string, amount sdkmath.Uint) error {
	if _, err := t.q.Exec("DELETE FROM fungible_balance WHERE token_id = $1;", tokenID); err != nil {
		return err
	}
	return meddler.Insert(t.q, "fungible_balance", &balanceRow{TokenID: tokenID, Amount: amount})
}

func (t *tx) SetAccountBalance(tokenID string, account []byte, amount sdkmath.Uint) error {
	row := &accountBalanceRow{TokenID: tokenID, Account: hex.EncodeToString(account), Amount: amount}
	if _, err := t.q.Exec("DELETE FROM account_balance WHERE token_id = $1 AND account = $2;", row.TokenID, row.Account); err != nil {
		return err
	}
	return meddler.Insert(t.q, "account_balance", row)
}

func (t *tx) SetNonFungibleOwner(collection, index string, owner []byte) error {
	row := &nonFungibleRow{Collection: collection, TokenIndex: index}
	if owner != nil {
		row.Owner = hex.EncodeToString(owner)
	}
	if _, err := t.q.Exec("DELETE FROM non_fungible WHERE collection = $1 AND token_index = $2;", collection, index); err != nil {
		return err
	}
	return meddler.Insert(t.q, "non_fungible", row)
}

func (t *tx) SetContractState(contract, key, value string) error {
	_, err := t.q.Exec(`
		INSERT INTO contract_state (contract, state_key, value) VALUES ($1, $2, $3)
		ON CONFLICT (contract, state_key) DO UPDATE SET value = excluded.value;`,
		contract, key, value)
	return err
}

func (t *tx) RecordDelivery(d core.Delivery) error {
	return meddler.Insert(t.q, "delivery", &deliveryRow{
		SourceChain: d.SourceChain,
		Sequence:    int64(d.Sequence),
		BlockHeight: int64(d.BlockHeight),
		Message:     d.Message,
	})
}
