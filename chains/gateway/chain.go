package gateway

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/log"
)

// Contract names and the fields and methods read or called on them.
const (
	contractLightClient = "light_client"
	contractTreasury    = "treasury"

	fieldHeight                  = "height"
	fieldHeader                  = "header"
	fieldSequence                = "sequence"
	fieldFungibleTokenBalance    = "fungible_token_balance"
	fieldNonFungibleTokenBalance = "non_fungible_token_balance"

	methodUpdate             = "update"
	methodTransfer           = "transfer"
	methodDeliverCustomOrder = "deliver_custom_order"
)

// Chain is a destination chain reached through a contract gateway.
type Chain struct {
	config *ChainConfig
	client *Client
	logger *log.RelayLogger
}

var _ core.Chain = (*Chain)(nil)

func NewChain(config *ChainConfig, client *Client) *Chain {
	return &Chain{
		config: config,
		client: client,
		logger: log.GetLogger().WithChain(config.Name).WithModule("chains.gateway"),
	}
}

// Client returns the gateway client of the chain.
func (c *Chain) Client() *Client {
	return c.client
}

func (c *Chain) ChainName() string {
	return c.config.Name
}

func (c *Chain) LastBlock(ctx context.Context) (*core.Block, error) {
	height, err := c.client.CurrentHeight(ctx)
	if err != nil {
		return nil, err
	}
	info, err := c.client.BlockInfo(ctx, height)
	if err != nil {
		return nil, err
	}
	return &core.Block{Height: height, Hash: info.BlockHash, Timestamp: info.Timestamp}, nil
}

func (c *Chain) CheckConnection(ctx context.Context) error {
	if _, err := c.client.CurrentHeight(ctx); err != nil {
		var connErr *core.ConnectionError
		if errors.As(err, &connErr) {
			return err
		}
		return &core.ConnectionError{Chain: c.ChainName(), Reason: err}
	}
	return nil
}

func (c *Chain) query(ctx context.Context, contract, field string) ([]string, error) {
	addr := c.config.LightClientAddress
	if contract == contractTreasury {
		addr = c.config.TreasuryAddress
	}
	q, err := c.client.ContractState(ctx, contract, addr, field)
	if err != nil {
		return nil, err
	}
	return q.Output, nil
}

func (c *Chain) queryUint64(ctx context.Context, contract, field string) (uint64, error) {
	out, err := c.query(ctx, contract, field)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, errors.Newf("%s.%s: expected a single output, got %d", contract, field, len(out))
	}
	return strconv.ParseUint(out[0], 10, 64)
}

func (c *Chain) ContractList(ctx context.Context) ([]core.ContractInfo, error) {
	height, err := c.queryUint64(ctx, contractLightClient, fieldHeight)
	if err != nil {
		return nil, err
	}
	seq, err := c.queryUint64(ctx, contractTreasury, fieldSequence)
	if err != nil {
		return nil, err
	}
	return []core.ContractInfo{
		{Address: c.config.LightClientAddress, ContractType: core.ContractTypeLightClient, Sequence: height},
		{Address: c.config.TreasuryAddress, ContractType: core.ContractTypeTreasury, Sequence: seq},
	}, nil
}

func (c *Chain) RelayerAccountInfo(ctx context.Context) (*core.AccountInfo, error) {
	if c.config.RelayerAddress == "" {
		return nil, errors.Wrapf(core.ErrNotSupported, "chain %s has no relayer account", c.ChainName())
	}
	info, err := c.client.AccountInfo(ctx, c.config.RelayerAddress)
	if err != nil {
		return nil, err
	}
	balance, err := sdkmath.ParseUint(info.NativeToken)
	if err != nil {
		return nil, errors.Wrapf(err, "native token balance %q", info.NativeToken)
	}
	return &core.AccountInfo{Address: c.config.RelayerAddress, Balance: balance}, nil
}

func (c *Chain) LightClientHeader(ctx context.Context) (core.Header, error) {
	out, err := c.query(ctx, contractLightClient, fieldHeader)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, errors.Newf("light client header: expected a single output, got %d", len(out))
	}
	return hexutil.Decode(out[0])
}

// TreasuryFungibleTokenBalance reads entries of the form "<token_id>:<amount>".
func (c *Chain) TreasuryFungibleTokenBalance(ctx context.Context) (map[string]sdkmath.Uint, error) {
	out, err := c.query(ctx, contractTreasury, fieldFungibleTokenBalance)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]sdkmath.Uint, len(out))
	for _, entry := range out {
		i := strings.LastIndex(entry, ":")
		if i < 0 {
			return nil, errors.Newf("malformed balance entry %q", entry)
		}
		amount, err := sdkmath.ParseUint(entry[i+1:])
		if err != nil {
			return nil, errors.Wrapf(err, "malformed balance entry %q", entry)
		}
		balances[entry[:i]] = amount
	}
	return balances, nil
}

// TreasuryNonFungibleTokenBalance reads entries of the form
// "<collection_address>:<token_index>".
func (c *Chain) TreasuryNonFungibleTokenBalance(ctx context.Context) ([]core.NonFungibleHolding, error) {
	out, err := c.query(ctx, contractTreasury, fieldNonFungibleTokenBalance)
	if err != nil {
		return nil, err
	}
	holdings := make([]core.NonFungibleHolding, 0, len(out))
	for _, entry := range out {
		i := strings.LastIndex(entry, ":")
		if i < 0 {
			return nil, errors.Newf("malformed holding entry %q", entry)
		}
		holdings = append(holdings, core.NonFungibleHolding{CollectionAddress: entry[:i], TokenIndex: entry[i+1:]})
	}
	return holdings, nil
}

func (c *Chain) execute(ctx context.Context, contract, method string, args ...string) error {
	if c.config.RelayerMnemonic == "" {
		return errors.Wrapf(core.ErrNotSupported, "chain %s has no relayer mnemonic", c.ChainName())
	}
	addr := c.config.LightClientAddress
	if contract == contractTreasury {
		addr = c.config.TreasuryAddress
	}
	tx, err := c.client.Execute(ctx, c.config.RelayerMnemonic, contract, addr, method, args)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "transaction sent", "contract", contract, "method", method, "tx_hash", tx.TxHash)
	return nil
}

func (c *Chain) UpdateLightClient(ctx context.Context, header core.Header, proof core.BlockFinalizationProof) error {
	return c.execute(ctx, contractLightClient, methodUpdate, hexutil.Encode(header), hexutil.Encode(proof))
}

func (c *Chain) transfer(ctx context.Context, message core.DeliverableMessage, blockHeight uint64, proof core.MerkleProof) error {
	bz, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.execute(ctx, contractTreasury, methodTransfer,
		string(bz), strconv.FormatUint(blockHeight, 10), hexutil.Encode(proof))
}

func (c *Chain) TransferTreasuryFungibleToken(ctx context.Context, message core.FungibleTokenTransfer, blockHeight uint64, proof core.MerkleProof) error {
	return c.transfer(ctx, core.DeliverableMessage{FungibleTokenTransfer: &message}, blockHeight, proof)
}

func (c *Chain) TransferTreasuryNonFungibleToken(ctx context.Context, message core.NonFungibleTokenTransfer, blockHeight uint64, proof core.MerkleProof) error {
	return c.transfer(ctx, core.DeliverableMessage{NonFungibleTokenTransfer: &message}, blockHeight, proof)
}

func (c *Chain) DeliverCustomOrder(ctx context.Context, contractName string, message core.Custom, blockHeight uint64, proof core.MerkleProof) error {
	bz, err := json.Marshal(core.DeliverableMessage{Custom: &message})
	if err != nil {
		return err
	}
	return c.execute(ctx, contractTreasury, methodDeliverCustomOrder,
		contractName, string(bz), strconv.FormatUint(blockHeight, 10), hexutil.Encode(proof))
}
