package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MemoryRepository keeps every store in process. Transactions run one at a time on a
// private copy of the state which replaces the live one only when fn succeeds.
type MemoryRepository struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: newMemState()}
}

func (r *MemoryRepository) InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	draft := r.state.clone()
	if err := fn(ctx, draft); err != nil {
		return err
	}
	r.state = draft
	return nil
}

// Seed loads copies and accounts, failing on the first duplicate.
func (r *MemoryRepository) Seed(ctx context.Context, copies []model.Copy, accounts []model.Account) error {
	return r.InTx(ctx, func(ctx context.Context, s Stores) error {
		for _, c := range copies {
			if err := s.Catalog().InsertCopy(ctx, c); err != nil {
				return err
			}
		}
		for _, a := range accounts {
			if err := s.Fees().InsertAccount(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

var errDuplicate = errors.New("duplicate key")

type reservationKey struct {
	borrowerID string
	copyID     string
}

type entryKey struct {
	borrowerID string
	typ        model.EntryType
}

type memState struct {
	copies       map[string]model.Copy
	reservations map[reservationKey]model.Reservation
	entries      map[entryKey]model.CirculationEntry
	accounts     map[string]model.Account
}

func newMemState() *memState {
	return &memState{
		copies:       make(map[string]model.Copy),
		reservations: make(map[reservationKey]model.Reservation),
		entries:      make(map[entryKey]model.CirculationEntry),
		accounts:     make(map[string]model.Account),
	}
}

func (m *memState) clone() *memState {
	c := newMemState()
	for k, v := range m.copies {
		c.copies[k] = v
	}
	for k, v := range m.reservations {
		c.reservations[k] = v
	}
	for k, v := range m.entries {
		c.entries[k] = v.Clone()
	}
	for k, v := range m.accounts {
		c.accounts[k] = v
	}
	return c
}

func (m *memState) Catalog() CatalogStore { return m }
func (m *memState) Reservations() ReservationLedger { return m }
func (m *memState) Circulation() CirculationLedger { return m }
func (m *memState) Fees() FeeLedger { return m }

func (m *memState) Savepoint(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	sub := m.clone()
	if err := fn(ctx, sub); err != nil {
		return err
	}
	*m = *sub
	return nil
}

func (m *memState) FindCopy(_ context.Context, copyID string) (model.Copy, error) {
	c, ok := m.copies[copyID]
	if !ok {
		return model.Copy{}, errs.ErrNotFound
	}
	return c, nil
}

func (m *memState) InsertCopy(_ context.Context, c model.Copy) error {
	if _, ok := m.copies[c.CopyID]; ok {
		return errors.Wrapf(errDuplicate, "copy %s", c.CopyID)
	}
	m.copies[c.CopyID] = c
	return nil
}

func (m *memState) UpdateCopy(_ context.Context, c model.Copy) error {
	if _, ok := m.copies[c.CopyID]; !ok {
		return errs.ErrNotFound
	}
	m.copies[c.CopyID] = c
	return nil
}

func (m *memState) DeleteCopy(_ context.Context, copyID string) error {
	if _, ok := m.copies[copyID]; !ok {
		return errs.ErrNotFound
	}
	delete(m.copies, copyID)
	return nil
}

func (m *memState) FindReservation(_ context.Context, borrowerID, copyID string) (model.Reservation, error) {
	r, ok := m.reservations[reservationKey{borrowerID, copyID}]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return r, nil
}

func (m *memState) FindReservationByCopy(_ context.Context, copyID string) (model.Reservation, error) {
	var found []model.Reservation
	for k, r := range m.reservations {
		if k.copyID == copyID {
			found = append(found, r)
		}
	}
	if len(found) == 0 {
		return model.Reservation{}, errs.ErrNotFound
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].ExpectedDate.Before(found[j].ExpectedDate)
	})
	return found[0], nil
}

func (m *memState) InsertReservation(_ context.Context, r model.Reservation) error {
	k := reservationKey{r.BorrowerID, r.CopyID}
	if _, ok := m.reservations[k]; ok {
		return errors.Wrapf(errDuplicate, "reservation %s/%s", r.BorrowerID, r.CopyID)
	}
	r.ExpectedDate = model.Day(r.ExpectedDate)
	m.reservations[k] = r
	return nil
}

func (m *memState) UpdateReservation(_ context.Context, r model.Reservation) error {
	k := reservationKey{r.BorrowerID, r.CopyID}
	if _, ok := m.reservations[k]; !ok {
		return errs.ErrNotFound
	}
	r.ExpectedDate = model.Day(r.ExpectedDate)
	m.reservations[k] = r
	return nil
}

func (m *memState) DeleteReservation(_ context.Context, borrowerID, copyID string) error {
	k := reservationKey{borrowerID, copyID}
	if _, ok := m.reservations[k]; !ok {
		return errs.ErrNotFound
	}
	delete(m.reservations, k)
	return nil
}

func (m *memState) FindEntry(_ context.Context, borrowerID string, typ model.EntryType) (model.CirculationEntry, error) {
	e, ok := m.entries[entryKey{borrowerID, typ}]
	if !ok {
		return model.CirculationEntry{}, errs.ErrNotFound
	}
	return e.Clone(), nil
}

func (m *memState) InsertEntry(_ context.Context, e model.CirculationEntry) error {
	k := entryKey{e.BorrowerID, e.Type}
	if _, ok := m.entries[k]; ok {
		return errors.Wrapf(errDuplicate, "entry %s/%s", e.BorrowerID, e.Type)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Date = model.Day(e.Date)
	m.entries[k] = e.Clone()
	return nil
}

func (m *memState) UpdateEntry(_ context.Context, e model.CirculationEntry) error {
	k := entryKey{e.BorrowerID, e.Type}
	old, ok := m.entries[k]
	if !ok {
		return errs.ErrNotFound
	}
	e.ID = old.ID
	e.Date = model.Day(e.Date)
	m.entries[k] = e.Clone()
	return nil
}

func (m *memState) DeleteEntry(_ context.Context, borrowerID string, typ model.EntryType) error {
	k := entryKey{borrowerID, typ}
	if _, ok := m.entries[k]; !ok {
		return errs.ErrNotFound
	}
	delete(m.entries, k)
	return nil
}

func (m *memState) LookupBorrower(_ context.Context, borrowerID string) (model.Account, error) {
	a, ok := m.accounts[borrowerID]
	if !ok {
		return model.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (m *memState) InsertAccount(_ context.Context, a model.Account) error {
	if _, ok := m.accounts[a.BorrowerID]; ok {
		return errors.Wrapf(errDuplicate, "account %s", a.BorrowerID)
	}
	if a.DueAmount < 0 {
		return errs.ErrNegativeBalance
	}
	m.accounts[a.BorrowerID] = a
	return nil
}

func (m *memState) AdjustDueAmount(_ context.Context, borrowerID string, delta int64) error {
	a, ok := m.accounts[borrowerID]
	if !ok {
		return errs.ErrNotFound
	}
	if a.DueAmount+delta < 0 {
		return errs.ErrNegativeBalance
	}
	a.DueAmount += delta
	m.accounts[borrowerID] = a
	return nil
}

func (m *memState) DeleteAccount(_ context.Context, borrowerID string) error {
	if _, ok := m.accounts[borrowerID]; !ok {
		return errs.ErrNotFound
	}
	delete(m.accounts, borrowerID)
	return nil
}
