package kvstore

import (
	"context"
	"encoding/json"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

// Store keeps light client and treasury state in a key-value database.
//
// Safe for concurrent use by multiple goroutines.
type Store struct {
	mtx sync.RWMutex
	db  dbm.DB
}

var _ core.Store = (*Store)(nil)

// New returns a Store that wraps db.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

// NewMemStore returns a Store backed by an in-memory database.
func NewMemStore() *Store {
	return New(dbm.NewMemDB())
}

// Open opens the database called name in dir with the given backend
// ("goleveldb" or "memdb").
func Open(backend, dir, name string) (*Store, error) {
	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database %s in %s", backend, name, dir)
	}
	return New(db), nil
}

func (s *Store) LoadLightClient(ctx context.Context, chainName string) (*core.LightClientState, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	bz, err := s.db.Get(lightClientKey(chainName))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, errors.Wrapf(core.ErrNotFound, "light client of %s", chainName)
	}
	var state core.LightClientState
	if err := json.Unmarshal(bz, &state); err != nil {
		return nil, errors.Wrap(err, "unmarshalling light client state")
	}
	return &state, nil
}

func (s *Store) SaveLightClient(ctx context.Context, state core.LightClientState) error {
	bz, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "marshalling light client state")
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.db.SetSync(lightClientKey(state.ChainName), bz)
}

// Update runs fn against a write overlay and commits the overlay in a single
// batch iff fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(tx core.TreasuryTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t := newTx(s.db)
	if err := fn(t); err != nil {
		return err
	}
	return t.commit()
}

func (s *Store) View(ctx context.Context, fn func(r core.TreasuryReader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return fn(newTx(s.db))
}

func (s *Store) Ping(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	_, err := s.db.Has(pingKey)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
