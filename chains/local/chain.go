package local

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/otelcore"
	"github.com/hyperledger-labs/yui-colony/signer"
	"github.com/hyperledger-labs/yui-colony/store/kvstore"
	"github.com/hyperledger-labs/yui-colony/store/sqlite"
)

// Chain is a destination chain running in the relayer process. Its light
// client and treasury share one store; every successful write produces a
// new local block.
type Chain struct {
	config      *ChainConfig
	store       core.Store
	lightClient *core.LightClient
	treasury    *core.Treasury
	codec       core.AddressCodec
	relayer     signer.Signer
	counters    map[string]CounterContract

	mtx   sync.RWMutex
	block core.Block
}

var _ core.Chain = (*Chain)(nil)

func openStore(cfg StoreConfig, path string) (core.Store, error) {
	if cfg.Backend == StoreBackendMemDB {
		return kvstore.NewMemStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case StoreBackendGoLevelDB:
		return kvstore.Open(StoreBackendGoLevelDB, filepath.Dir(path), filepath.Base(path))
	case StoreBackendSQLite:
		return sqlite.Open(path)
	default:
		return nil, errors.Newf("unknown store backend %q", cfg.Backend)
	}
}

// NewChain opens the store of config and restores the light client and
// treasury from it.
func NewChain(config *ChainConfig, homePath string, prover core.Prover) (*Chain, error) {
	store, err := openStore(config.Store, config.storePath(homePath))
	if err != nil {
		return nil, err
	}
	chain, err := newChain(config, store, prover)
	if err != nil {
		store.Close()
		return nil, err
	}
	return chain, nil
}

func newChain(config *ChainConfig, store core.Store, prover core.Prover) (*Chain, error) {
	ctx := context.Background()
	codec, err := core.NewAddressCodec(config.AddressCodec.Kind, config.AddressCodec.Bech32Prefix)
	if err != nil {
		return nil, err
	}
	lc, err := core.LoadLightClient(ctx, store, config.SourceChain, config.Genesis,
		otelcore.NewProver(prover, config.SourceChain, nil))
	if err != nil {
		return nil, err
	}

	c := &Chain{
		config:      config,
		store:       store,
		lightClient: lc,
		codec:       codec,
		counters:    make(map[string]CounterContract),
	}
	opts := []core.TreasuryOption{core.WithAddressCodec(codec)}
	for _, name := range config.CounterContracts {
		counter := CounterContract{Name: name}
		c.counters[name] = counter
		opts = append(opts, core.WithCustomOrderHandler(name, counter))
	}
	c.treasury = core.NewTreasury(lc, store, opts...)

	if config.Relayer != nil {
		if c.relayer, err = config.Relayer.Build(); err != nil {
			return nil, err
		}
	}

	c.block = core.Block{
		Height:    0,
		Hash:      crypto.Keccak256Hash(config.Genesis).Hex(),
		Timestamp: uint64(time.Now().Unix()),
	}
	return c, nil
}

// produceBlock seals a local block after a successful write.
func (c *Chain) produceBlock(op string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	parent := common.HexToHash(c.block.Hash)
	c.block = core.Block{
		Height:    c.block.Height + 1,
		Hash:      crypto.Keccak256Hash(parent.Bytes(), []byte(op)).Hex(),
		Timestamp: uint64(time.Now().Unix()),
	}
}

func (c *Chain) ChainName() string {
	return c.config.Name
}

func (c *Chain) LastBlock(ctx context.Context) (*core.Block, error) {
	if err := c.CheckConnection(ctx); err != nil {
		return nil, err
	}
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	block := c.block
	return &block, nil
}

func (c *Chain) CheckConnection(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return &core.ConnectionError{Chain: c.ChainName(), Reason: err}
	}
	return nil
}

func (c *Chain) ContractList(ctx context.Context) ([]core.ContractInfo, error) {
	seq, err := c.treasury.LastSequence(ctx, c.config.SourceChain)
	if err != nil {
		return nil, err
	}
	return []core.ContractInfo{
		{
			Address:      c.config.LightClientAddress,
			ContractType: core.ContractTypeLightClient,
			Sequence:     c.lightClient.State().Height,
		},
		{
			Address:      c.config.TreasuryAddress,
			ContractType: core.ContractTypeTreasury,
			Sequence:     seq,
		},
	}, nil
}

func (c *Chain) RelayerAccountInfo(ctx context.Context) (*core.AccountInfo, error) {
	if c.relayer == nil {
		return nil, errors.Wrapf(core.ErrNotSupported, "chain %s has no relayer account", c.ChainName())
	}
	addr, err := c.codec.Encode(c.relayer.Address().Bytes())
	if err != nil {
		return nil, err
	}
	balance := sdkmath.ZeroUint()
	if c.config.RelayerBalance != "" {
		if balance, err = sdkmath.ParseUint(c.config.RelayerBalance); err != nil {
			return nil, err
		}
	}
	return &core.AccountInfo{Address: addr, Balance: balance}, nil
}

func (c *Chain) LightClientHeader(ctx context.Context) (core.Header, error) {
	return c.lightClient.State().LastHeader, nil
}

func (c *Chain) TreasuryFungibleTokenBalance(ctx context.Context) (map[string]sdkmath.Uint, error) {
	return c.treasury.FungibleBalances(ctx)
}

func (c *Chain) TreasuryNonFungibleTokenBalance(ctx context.Context) ([]core.NonFungibleHolding, error) {
	return c.treasury.NonFungibleHoldings(ctx)
}

func (c *Chain) UpdateLightClient(ctx context.Context, header core.Header, proof core.BlockFinalizationProof) error {
	if err := c.lightClient.Update(ctx, header, proof); err != nil {
		return err
	}
	c.produceBlock("update_light_client")
	return nil
}

func (c *Chain) TransferTreasuryFungibleToken(ctx context.Context, message core.FungibleTokenTransfer, blockHeight uint64, proof core.MerkleProof) error {
	if err := c.treasury.Transfer(ctx, core.DeliverableMessage{FungibleTokenTransfer: &message}, blockHeight, proof); err != nil {
		return err
	}
	c.produceBlock("transfer_treasury_fungible_token")
	return nil
}

func (c *Chain) TransferTreasuryNonFungibleToken(ctx context.Context, message core.NonFungibleTokenTransfer, blockHeight uint64, proof core.MerkleProof) error {
	if err := c.treasury.Transfer(ctx, core.DeliverableMessage{NonFungibleTokenTransfer: &message}, blockHeight, proof); err != nil {
		return err
	}
	c.produceBlock("transfer_treasury_non_fungible_token")
	return nil
}

func (c *Chain) DeliverCustomOrder(ctx context.Context, contractName string, message core.Custom, blockHeight uint64, proof core.MerkleProof) error {
	if err := c.treasury.DeliverCustomOrder(ctx, contractName, message, blockHeight, proof); err != nil {
		return err
	}
	c.produceBlock("deliver_custom_order")
	return nil
}

// Deposit funds the treasury with a fungible token.
func (c *Chain) Deposit(ctx context.Context, tokenID string, amount sdkmath.Uint) error {
	if err := c.treasury.Deposit(ctx, tokenID, amount); err != nil {
		return err
	}
	c.produceBlock("deposit")
	return nil
}

// DepositNonFungible places a non-fungible asset in the treasury.
func (c *Chain) DepositNonFungible(ctx context.Context, collection, index string) error {
	if err := c.treasury.DepositNonFungible(ctx, collection, index); err != nil {
		return err
	}
	c.produceBlock("deposit_non_fungible")
	return nil
}

// AccountBalance returns what the treasury paid out of tokenID to address.
func (c *Chain) AccountBalance(ctx context.Context, tokenID, address string) (sdkmath.Uint, error) {
	return c.treasury.AccountBalance(ctx, tokenID, address)
}

// Deliveries returns the receipts of the records applied from the source chain.
func (c *Chain) Deliveries(ctx context.Context) ([]core.Delivery, error) {
	return c.treasury.Deliveries(ctx, c.config.SourceChain)
}

// Counter returns the value of the named counter contract.
func (c *Chain) Counter(ctx context.Context, contractName string) (uint64, error) {
	counter, ok := c.counters[contractName]
	if !ok {
		return 0, errors.Wrapf(core.ErrNotFound, "counter contract %q", contractName)
	}
	return counter.Count(ctx, c.store)
}

// LightClient returns the light client hosted by the chain.
func (c *Chain) LightClient() *core.LightClient {
	return c.lightClient
}

func (c *Chain) Close() error {
	return c.store.Close()
}
