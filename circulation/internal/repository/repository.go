package repository

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type CatalogStore interface {
	FindCopy(ctx context.Context, copyID string) (model.Copy, error)
	InsertCopy(ctx context.Context, c model.Copy) error
	UpdateCopy(ctx context.Context, c model.Copy) error
	DeleteCopy(ctx context.Context, copyID string) error
}

type ReservationLedger interface {
	FindReservation(ctx context.Context, borrowerID, copyID string) (model.Reservation, error)
	FindReservationByCopy(ctx context.Context, copyID string) (model.Reservation, error)
	InsertReservation(ctx context.Context, r model.Reservation) error
	UpdateReservation(ctx context.Context, r model.Reservation) error
	DeleteReservation(ctx context.Context, borrowerID, copyID string) error
}

type CirculationLedger interface {
	FindEntry(ctx context.Context, borrowerID string, typ model.EntryType) (model.CirculationEntry, error)
	InsertEntry(ctx context.Context, e model.CirculationEntry) error
	UpdateEntry(ctx context.Context, e model.CirculationEntry) error
	DeleteEntry(ctx context.Context, borrowerID string, typ model.EntryType) error
}

// FeeLedger is the slice of the borrower directory the circulation core may touch.
type FeeLedger interface {
	LookupBorrower(ctx context.Context, borrowerID string) (model.Account, error)
	InsertAccount(ctx context.Context, a model.Account) error
	AdjustDueAmount(ctx context.Context, borrowerID string, delta int64) error
	DeleteAccount(ctx context.Context, borrowerID string) error
}

// Stores are bound to one transaction.
type Stores interface {
	Catalog() CatalogStore
	Reservations() ReservationLedger
	Circulation() CirculationLedger
	Fees() FeeLedger
	// Savepoint runs fn as a nested transaction: its writes are discarded when it fails
	// while the enclosing transaction stays usable.
	Savepoint(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

type Repository interface {
	// InTx commits when fn returns nil and rolls everything back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

const (
	copiesTableName       = `copies`
	reservationsTableName = `reservations`
	entriesTableName      = `circulation_entries`
	accountsTableName     = `accounts`

	defaultTxRetries = 3
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db         *pgxpool.Pool
	log        *zap.Logger
	maxRetries int
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil pool")
	}
	return &repository{
		db:         db,
		log:        log.Named("repo"),
		maxRetries: defaultTxRetries,
	}, nil
}

func (r *repository) InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	for attempt := 1; ; attempt++ {
		err := r.inTx(ctx, fn)
		if err == nil || !isRetryable(err) || attempt > r.maxRetries {
			return err
		}
		r.log.Warn("retrying transaction", zap.Int("attempt", attempt), zap.Error(err))
	}
}

func (r *repository) inTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.Error("tx.Rollback", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(ctx, &txStores{q: tx, log: r.log}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return true
		case pgerrcode.UniqueViolation:
			// a concurrent tx created the borrower's entry first, the retry appends to it.
			return pgErr.TableName == entriesTableName
		}
	}
	return false
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// txStores implements every store on top of one pgx.Tx.
type txStores struct {
	q   querier
	log *zap.Logger
}

func (s *txStores) Catalog() CatalogStore { return s }
func (s *txStores) Reservations() ReservationLedger { return s }
func (s *txStores) Circulation() CirculationLedger { return s }
func (s *txStores) Fees() FeeLedger { return s }

func (s *txStores) Savepoint(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	tx, ok := s.q.(pgx.Tx)
	if !ok {
		return fn(ctx, s)
	}
	sp, err := tx.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "savepoint")
	}
	if err := fn(ctx, &txStores{q: sp, log: s.log}); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			s.log.Error("rollback to savepoint", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(sp.Commit(ctx), "release savepoint")
}
