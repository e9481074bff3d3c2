package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func appendBatch(t *testing.T, path string, batch RelayBatch) {
	t.Helper()
	bz, err := json.Marshal(batch)
	require.NoError(t, err)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write(append(bz, '\n'))
	require.NoError(t, err)
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shibuya.jsonl")
	src := NewFileSource("shibuya", path)
	require.Equal(t, "shibuya", src.SourceChain())

	_, err := src.Next(ctx)
	require.Error(t, err)

	appendBatch(t, path, RelayBatch{Header: Header{0x02}, Proof: BlockFinalizationProof("valid")})
	batch, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, Header{0x02}, batch.Header)

	// Next is idempotent until the batch is acked
	again, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, batch, again)
	require.NoError(t, src.Ack(ctx, batch))

	batch, err = src.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, batch)

	appendBatch(t, path, RelayBatch{Records: []RelayRecord{{
		Message:     NewCustomMessage("increment", 1),
		BlockHeight: 1,
		Proof:       MerkleProof("valid"),
	}}})
	batch, err = src.Next(ctx)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	require.Equal(t, MessageKindCustom, batch.Records[0].Message.Kind())
}

func TestFileSourceRejectsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shibuya.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("\n{\"records\": [{\"message\": {\"Burn\": {}}}]}\n"), 0o600))
	_, err := NewFileSource("shibuya", path).Next(context.Background())
	require.ErrorIs(t, err, ErrInvalidMessage)
}
