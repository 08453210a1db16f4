package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

// faults selects which writes of a faultyRepo fail.
type faults struct {
	copies       error
	entries      error
	reservations error
}

type faultyRepo struct {
	repository.Repository
	f *faults
}

func (r faultyRepo) InTx(ctx context.Context, fn func(ctx context.Context, s repository.Stores) error) error {
	return r.Repository.InTx(ctx, func(ctx context.Context, s repository.Stores) error {
		return fn(ctx, faultyStores{Stores: s, f: r.f})
	})
}

type faultyStores struct {
	repository.Stores
	f *faults
}

func (s faultyStores) Catalog() repository.CatalogStore {
	return faultyCatalog{CatalogStore: s.Stores.Catalog(), err: s.f.copies}
}

func (s faultyStores) Circulation() repository.CirculationLedger {
	return faultyLedger{CirculationLedger: s.Stores.Circulation(), err: s.f.entries}
}

func (s faultyStores) Reservations() repository.ReservationLedger {
	return faultyReservations{ReservationLedger: s.Stores.Reservations(), err: s.f.reservations}
}

func (s faultyStores) Savepoint(ctx context.Context, fn func(ctx context.Context, s repository.Stores) error) error {
	return s.Stores.Savepoint(ctx, func(ctx context.Context, sp repository.Stores) error {
		return fn(ctx, faultyStores{Stores: sp, f: s.f})
	})
}

type faultyCatalog struct {
	repository.CatalogStore
	err error
}

func (c faultyCatalog) UpdateCopy(ctx context.Context, cp model.Copy) error {
	if c.err != nil {
		return c.err
	}
	return c.CatalogStore.UpdateCopy(ctx, cp)
}

type faultyLedger struct {
	repository.CirculationLedger
	err error
}

func (l faultyLedger) InsertEntry(ctx context.Context, e model.CirculationEntry) error {
	if l.err != nil {
		return l.err
	}
	return l.CirculationLedger.InsertEntry(ctx, e)
}

func (l faultyLedger) UpdateEntry(ctx context.Context, e model.CirculationEntry) error {
	if l.err != nil {
		return l.err
	}
	return l.CirculationLedger.UpdateEntry(ctx, e)
}

type faultyReservations struct {
	repository.ReservationLedger
	err error
}

func (r faultyReservations) InsertReservation(ctx context.Context, rsv model.Reservation) error {
	if r.err != nil {
		return r.err
	}
	return r.ReservationLedger.InsertReservation(ctx, rsv)
}

func (r faultyReservations) UpdateReservation(ctx context.Context, rsv model.Reservation) error {
	if r.err != nil {
		return r.err
	}
	return r.ReservationLedger.UpdateReservation(ctx, rsv)
}

// faulty returns a service over the same store whose writes fail as f says.
func (e *env) faulty(f *faults) *service.Service {
	return service.NewService(faultyRepo{Repository: e.repo, f: f}, zap.NewNop(),
		service.WithClock(e.clock.Now),
		service.WithNotifier(e.notifier),
	)
}

func TestService_CheckoutWriteFailureRollsBack(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    faults
	}{
		{"ledger insert", faults{entries: errBoom}},
		{"copy update", faults{copies: errBoom}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := defaultEnv(t)

			_, err := e.faulty(&tt.f).Checkout(context.Background(), "S1", "C2")
			require.ErrorIs(t, err, errs.ErrPersistence)
			require.ErrorIs(t, err, errBoom)

			require.True(t, e.copy(t, "C2").Availability)
			require.Empty(t, e.entry(t, "S1", model.EntryCheckOut).Copies)
			_, found := e.reservation(t, "S1", "C2")
			require.False(t, found)
			require.Empty(t, e.notifier.messages())
		})
	}
}

func TestService_CheckoutKeepsLoanWhenReservationFails(t *testing.T) {
	t.Parallel()
	e := defaultEnv(t)

	rec, err := e.faulty(&faults{reservations: errBoom}).Checkout(context.Background(), "S1", "C2")
	require.NoError(t, err)
	require.Equal(t, "C2", rec.CopyID)

	require.False(t, e.copy(t, "C2").Availability)
	entry := e.entry(t, "S1", model.EntryCheckOut)
	require.Equal(t, []model.CopyRecord{rec}, entry.Copies)
	_, found := e.reservation(t, "S1", "C2")
	require.False(t, found)
	require.Len(t, e.notifier.messages(), 1)
}

func TestService_CheckInWriteFailureRollsBack(t *testing.T) {
	t.Parallel()
	e := defaultEnv(t)
	ctx := context.Background()

	_, err := e.svc.Checkout(ctx, "S1", "C1")
	require.NoError(t, err)

	e.clock.at(35)
	_, err = e.faulty(&faults{entries: errBoom}).CheckIn(ctx, "S1", "C1", "Returns cart")
	require.ErrorIs(t, err, errs.ErrPersistence)

	c := e.copy(t, "C1")
	require.False(t, c.Availability)
	require.Equal(t, "Shelf A1", c.Location)
	require.Zero(t, e.account(t, "S1").DueAmount)
	require.NotEqual(t, -1, e.entry(t, "S1", model.EntryCheckOut).Find("C1"))
	require.Empty(t, e.entry(t, "S1", model.EntryCheckIn).Copies)
	_, found := e.reservation(t, "S1", "C1")
	require.True(t, found)

	res, err := e.svc.CheckIn(ctx, "S1", "C1", "Returns cart")
	require.NoError(t, err)
	require.EqualValues(t, 50, res.LateFee)
	require.EqualValues(t, 50, e.account(t, "S1").DueAmount)
}
