package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/chains/local"
	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/provers/mock"
)

func TestMain(m *testing.M) {
	core.RegisterChainConfig(local.ChainConfigType, func() core.ChainConfig { return &local.ChainConfig{} })
	core.RegisterProverConfig(mock.ProverConfigType, func() core.ProverConfig { return &mock.ProverConfig{} })
	os.Exit(m.Run())
}

func run(t *testing.T, ctx *config.Context, args ...string) []byte {
	t.Helper()
	cmd := LocalCmd(ctx)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.Bytes()
}

func generateConfig(t *testing.T, home string) *core.ChainProverConfig {
	t.Helper()
	bz, err := core.MarshalTyped(mock.ProverConfigType, &mock.ProverConfig{})
	require.NoError(t, err)
	proverFile := filepath.Join(home, "prover.json")
	require.NoError(t, os.WriteFile(proverFile, bz, 0600))

	out := run(t, &config.Context{}, "config", "astar-local", "shibuya", "0x01",
		"--store-backend", local.StoreBackendSQLite,
		"--store-path", "astar.db",
		"--counter", "simple_counter",
		"--prover-file", proverFile,
	)
	var cpc core.ChainProverConfig
	require.NoError(t, json.Unmarshal(out, &cpc))
	require.NoError(t, cpc.Init())
	return &cpc
}

func TestGenerateChainConfig(t *testing.T) {
	cpc := generateConfig(t, t.TempDir())

	chainCfg, err := cpc.GetChainConfig()
	require.NoError(t, err)
	c := chainCfg.(*local.ChainConfig)
	require.Equal(t, "astar-local", c.ChainName())
	require.Equal(t, "shibuya", c.SourceChain)
	require.Equal(t, core.Header{0x01}, c.Genesis)
	require.Equal(t, []string{"simple_counter"}, c.CounterContracts)
	require.IsType(t, &mock.ProverConfig{}, cpc.GetProverConfig())
}

func TestGenerateChainConfigRejectsInvalid(t *testing.T) {
	cmd := LocalCmd(&config.Context{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "astar-local", "shibuya", "0x01", "--store-backend", "rocksdb"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestQueries(t *testing.T) {
	home := t.TempDir()
	cfg := config.DefaultConfig(filepath.Join(home, "config", "config.json"))
	require.NoError(t, cfg.AddChain(generateConfig(t, home)))
	ctx := &config.Context{Config: &cfg, HomePath: home}

	var counter map[string]uint64
	require.NoError(t, json.Unmarshal(run(t, ctx, "counter", "astar-local", "simple_counter"), &counter))
	require.Equal(t, uint64(0), counter["count"])

	var deliveries []core.Delivery
	require.NoError(t, json.Unmarshal(run(t, ctx, "deliveries", "astar-local"), &deliveries))
	require.Empty(t, deliveries)

	cmd := LocalCmd(ctx)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"counter", "astar-local", "unknown"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
