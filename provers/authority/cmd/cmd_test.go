package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/provers/authority"
	"github.com/hyperledger-labs/yui-colony/signer"
)

func run(t *testing.T, args ...string) map[string]any {
	t.Helper()
	cmd := AuthorityCmd(&config.Context{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	var v map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	return v
}

func TestHeaderSignRoundTrip(t *testing.T) {
	mnemonic, err := signer.GenerateMnemonic()
	require.NoError(t, err)
	s, err := signer.NewMnemonicSigner(mnemonic, "")
	require.NoError(t, err)

	genesis := hexutil.Encode([]byte{0x01})
	header := run(t, "header", genesis, "--number", "1")["header"].(string)
	proof := run(t, "sign", "ethereum", header, "--mnemonic", mnemonic)["proof"].(string)

	prover, err := authority.NewProver([]common.Address{s.Address()}, 1)
	require.NoError(t, err)
	state := core.LightClientState{ChainName: "ethereum", Height: 0, LastHeader: core.Header{0x01}}
	require.NoError(t, prover.VerifyFinality(context.Background(), state, hexutil.MustDecode(header), hexutil.MustDecode(proof)))
}

func TestTree(t *testing.T) {
	records := []core.MessageDeliveryRecord{
		{Chain: "ethereum", Message: core.NewFungibleTokenTransferMessage("0x1", sdkmath.NewUint(300), "0x3", 1)},
		{Chain: "ethereum", Message: core.NewCustomMessage("increment", 2)},
		{Chain: "ethereum", Message: core.NewCustomMessage("decrement", 3)},
	}
	var lines []byte
	for _, r := range records {
		bz, err := json.Marshal(r)
		require.NoError(t, err)
		lines = append(append(lines, bz...), '\n')
	}
	path := filepath.Join(t.TempDir(), "records.jsonl")
	require.NoError(t, os.WriteFile(path, lines, 0o600))

	proofs, root, err := buildProofs(records)
	require.NoError(t, err)
	require.Len(t, proofs, 3)

	out := run(t, "tree", path)
	require.Equal(t, root.Hex(), out["message_root"])

	bz, err := authority.EncodeHeader(&authority.Header{Number: 1, MessageRoot: root})
	require.NoError(t, err)
	prover, err := authority.NewProver([]common.Address{{0x01}}, 1)
	require.NoError(t, err)
	for _, p := range proofs {
		require.NoError(t, prover.VerifyInclusion(context.Background(), bz, p.Record, p.Proof))
	}
}

func TestGenerateProverConfig(t *testing.T) {
	out := run(t, "config", "--authority", common.Address{0x01}.Hex(), "--quorum", "1")
	require.Equal(t, authority.ProverConfigType, out[core.TypeKey])

	cmd := AuthorityCmd(&config.Context{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--authority", "not-an-address"})
	require.Error(t, cmd.Execute())
}
