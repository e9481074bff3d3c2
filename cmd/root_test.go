package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/chains/local"
	localmodule "github.com/hyperledger-labs/yui-colony/chains/local/module"
	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/provers/mock"
	mockmodule "github.com/hyperledger-labs/yui-colony/provers/mock/module"
)

var registerOnce sync.Once

// testModule registers the local chain and mock prover configs once per
// test binary.
type testModule struct{}

var _ config.ModuleI = testModule{}

func (testModule) Name() string { return "test" }

func (testModule) RegisterConfigs() {
	registerOnce.Do(func() {
		localmodule.Module{}.RegisterConfigs()
		mockmodule.Module{}.RegisterConfigs()
	})
}

func (testModule) GetCmd(*config.Context) *cobra.Command { return nil }

func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(testModule{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--home", home))
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func mustExecute(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := execute(t, home, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func writeChainConfig(t *testing.T, dir string) {
	t.Helper()
	cpc, err := core.NewChainProverConfig(local.ChainConfigType, &local.ChainConfig{
		Name:        "astar-local",
		SourceChain: "shibuya",
		Genesis:     core.Header{0x01},
		Store:       local.StoreConfig{Backend: local.StoreBackendSQLite, Path: "astar.db"},
	}, mock.ProverConfigType, &mock.ProverConfig{})
	require.NoError(t, err)
	bz, err := json.Marshal(cpc)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "astar.json"), bz, 0o600))
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "config", "init")
	require.FileExists(t, filepath.Join(home, "config", "config.json"))

	_, err := execute(t, home, "config", "init")
	require.Error(t, err)

	out := mustExecute(t, home, "config", "show", "--yaml")
	require.Contains(t, out, "timeout: 10s")
}

func TestRelayFlow(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "config", "init")
	writeChainConfig(t, filepath.Join(home, "chains"))
	mustExecute(t, home, "chains", "add-dir", filepath.Join(home, "chains"))
	require.Contains(t, mustExecute(t, home, "chains", "list"), "astar-local")

	var balance map[string]string
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, home, "treasury", "deposit", "astar-local", "0x1", "1000")), &balance))
	require.Equal(t, "1000", balance["0x1"])

	valid := "0x76616c6964"
	mustExecute(t, home, "light-client", "update", "astar-local", "0x02", valid)
	require.Equal(t, "0x02", mustExecute(t, home, "light-client", "header", "astar-local"))

	message := `{"FungibleTokenTransfer":{"token_id":"0x1","amount":300,"receiver_address":"0x3","contract_sequence":1}}`
	require.Equal(t, "ok", mustExecute(t, home, "light-client", "verify", "astar-local", message, "1", valid))
	_, err := execute(t, home, "light-client", "verify", "astar-local", message, "2", valid)
	require.Error(t, err)

	record := `{"message":` + message + `,"block_height":1,"proof":"` + valid + `"}`
	mustExecute(t, home, "treasury", "transfer", "astar-local", record)
	_, err = execute(t, home, "treasury", "transfer", "astar-local", record)
	require.True(t, errors.Is(err, core.ErrAlreadyDelivered), err)

	var b struct {
		FungibleTokens map[string]string `json:"fungible_tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, home, "treasury", "balance", "astar-local")), &b))
	require.Equal(t, "700", b.FungibleTokens["0x1"])

	var statuses []chainStatus
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, home, "chains", "status")), &statuses))
	require.Len(t, statuses, 1)
	require.True(t, statuses[0].Connected)
	require.Len(t, statuses[0].Contracts, 2)
	require.EqualValues(t, 1, statuses[0].Contracts[0].Sequence)
	require.EqualValues(t, 1, statuses[0].Contracts[1].Sequence)
}

func TestUnknownChain(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "config", "init")
	_, err := execute(t, home, "light-client", "header", "nowhere")
	require.True(t, errors.Is(err, core.ErrChainNotFound), err)
}
