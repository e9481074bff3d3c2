package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

const (
	testChainType  = "/colony.core.testChainConfig"
	testProverType = "/colony.core.testProverConfig"
)

type testChainConfig struct {
	Name string `json:"name"`
}

func (c *testChainConfig) ChainName() string { return c.Name }

func (c *testChainConfig) Build(homePath string, prover Prover) (Chain, error) {
	if prover == nil {
		return nil, errors.New("prover required")
	}
	return nil, nil
}

func (c *testChainConfig) Validate() error {
	if c.Name == "" {
		return errors.New("empty name")
	}
	return nil
}

type testProverConfig struct{}

func (testProverConfig) Build() (Prover, error) { return acceptAll{}, nil }
func (testProverConfig) Validate() error        { return nil }

type acceptAll struct{}

func (acceptAll) VerifyFinality(context.Context, LightClientState, Header, BlockFinalizationProof) error {
	return nil
}

func (acceptAll) VerifyInclusion(context.Context, Header, MessageDeliveryRecord, MerkleProof) error {
	return nil
}

func init() {
	RegisterChainConfig(testChainType, func() ChainConfig { return &testChainConfig{} })
	RegisterProverConfig(testProverType, func() ProverConfig { return testProverConfig{} })
}

func TestChainProverConfig(t *testing.T) {
	cpc, err := NewChainProverConfig(testChainType, &testChainConfig{Name: "astar"}, testProverType, testProverConfig{})
	require.NoError(t, err)
	bz, err := json.Marshal(cpc)
	require.NoError(t, err)
	require.JSONEq(t, `{"chain":{"@type":"/colony.core.testChainConfig","name":"astar"},"prover":{"@type":"/colony.core.testProverConfig"}}`, string(bz))

	var decoded ChainProverConfig
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.NoError(t, decoded.Init())
	chain, err := decoded.GetChainConfig()
	require.NoError(t, err)
	require.Equal(t, "astar", chain.ChainName())
	require.NotNil(t, decoded.GetProverConfig())

	_, err = decoded.Build(t.TempDir())
	require.NoError(t, err)
	require.Contains(t, RegisteredChainConfigs(), testChainType)
}

func TestChainProverConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"missing type", `{"chain":{"name":"astar"}}`},
		{"unknown type", `{"chain":{"@type":"/colony.unknown","name":"astar"}}`},
		{"invalid chain", `{"chain":{"@type":"/colony.core.testChainConfig"}}`},
		{"unknown prover", `{"chain":{"@type":"/colony.core.testChainConfig","name":"astar"},"prover":{"@type":"/colony.unknown"}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var cpc ChainProverConfig
			require.NoError(t, json.Unmarshal([]byte(c.json), &cpc))
			require.Error(t, cpc.Init())
		})
	}

	// a config without a prover section builds with a nil prover
	var cpc ChainProverConfig
	require.NoError(t, json.Unmarshal([]byte(`{"chain":{"@type":"/colony.core.testChainConfig","name":"astar"}}`), &cpc))
	_, err := cpc.Build(t.TempDir())
	require.EqualError(t, err, "prover required")
}

func TestRegisterTwicePanics(t *testing.T) {
	require.Panics(t, func() {
		RegisterChainConfig(testChainType, func() ChainConfig { return &testChainConfig{} })
	})
}
