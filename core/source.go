package core

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

// FileSource reads relay batches from a file holding one JSON encoded
// RelayBatch per line. Lines appended while the service runs are picked up
// by later calls to Next.
type FileSource struct {
	sourceChain string
	path        string

	mtx      sync.Mutex
	consumed int
}

var _ RelaySource = (*FileSource)(nil)

func NewFileSource(sourceChain, path string) *FileSource {
	return &FileSource{sourceChain: sourceChain, path: path}
}

func (s *FileSource) SourceChain() string {
	return s.sourceChain
}

func (s *FileSource) Next(ctx context.Context) (*RelayBatch, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open relay batches %s", s.path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bz := scanner.Bytes()
		if len(bz) == 0 {
			continue
		}
		if line < s.consumed {
			line++
			continue
		}
		var batch RelayBatch
		if err := json.Unmarshal(bz, &batch); err != nil {
			return nil, errors.Wrapf(err, "failed to decode relay batch #%d of %s", line, s.path)
		}
		return &batch, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read relay batches %s", s.path)
	}
	return nil, nil
}

func (s *FileSource) Ack(ctx context.Context, batch *RelayBatch) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.consumed++
	return nil
}
