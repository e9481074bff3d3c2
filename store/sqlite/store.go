package sqlite

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/log"
	"github.com/hyperledger-labs/yui-colony/store/sqlite/migrations"
)

type lightClientRow struct {
	ChainName  string `meddler:"chain_name"`
	Height     int64  `meddler:"height"`
	LastHeader []byte `meddler:"last_header"`
}

// Store keeps light client and treasury state in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *log.RelayLogger
}

var _ core.Store = (*Store)(nil)

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// a single connection serializes transactions and keeps ":memory:" databases alive
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		pragma journal_mode = WAL;
		pragma synchronous = normal;
		pragma journal_size_limit  = 6144000;
	`); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to configure %s", dbPath)
	}
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to migrate %s", dbPath)
	}
	return &Store{
		db:     db,
		logger: log.GetLogger().WithModule("store.sqlite"),
	}, nil
}

func (s *Store) LoadLightClient(ctx context.Context, chainName string) (*core.LightClientState, error) {
	var row lightClientRow
	if err := meddler.QueryRow(s.db, &row, "SELECT * FROM light_client WHERE chain_name = $1;", chainName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(core.ErrNotFound, "light client of %s", chainName)
		}
		return nil, err
	}
	return &core.LightClientState{
		ChainName:  row.ChainName,
		Height:     uint64(row.Height),
		LastHeader: core.Header(row.LastHeader),
	}, nil
}

func (s *Store) SaveLightClient(ctx context.Context, state core.LightClientState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO light_client (chain_name, height, last_header) VALUES ($1, $2, $3)
		ON CONFLICT (chain_name) DO UPDATE SET height = excluded.height, last_header = excluded.last_header;`,
		state.ChainName, int64(state.Height), []byte(state.LastHeader))
	if err != nil {
		return errors.Wrap(err, "error saving light client state")
	}
	return nil
}

// Update runs fn in a SQL transaction that is committed iff fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(tx core.TreasuryTx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		// also reached when fn panics
		if errRllbck := sqlTx.Rollback(); errRllbck != nil && !errors.Is(errRllbck, sql.ErrTxDone) {
			s.logger.Error("error while rolling back tx", errRllbck)
		}
	}()

	if err = fn(&tx{q: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) View(ctx context.Context, fn func(r core.TreasuryReader) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer sqlTx.Rollback() //nolint:errcheck
	return fn(&tx{q: sqlTx})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
