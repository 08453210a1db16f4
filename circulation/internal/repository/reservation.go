package repository

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

var reservationColumns = []string{"borrower_id", "copy_id", "expected_date"}

func (s *txStores) FindReservation(ctx context.Context, borrowerID, copyID string) (model.Reservation, error) {
	return s.findReservation(ctx, sq.Eq{"borrower_id": borrowerID, "copy_id": copyID})
}

// FindReservationByCopy returns the reservation with the nearest expected date.
func (s *txStores) FindReservationByCopy(ctx context.Context, copyID string) (model.Reservation, error) {
	return s.findReservation(ctx, sq.Eq{"copy_id": copyID})
}

func (s *txStores) findReservation(ctx context.Context, where sq.Eq) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(where).
		OrderBy("expected_date").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return model.Reservation{}, err
	}
	defer rows.Close()

	rsv, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return rsv, nil
}

func (s *txStores) InsertReservation(ctx context.Context, r model.Reservation) error {
	query, args, err := qb.Insert(reservationsTableName).
		Columns(reservationColumns...).
		Values(r.BorrowerID, r.CopyID, model.Day(r.ExpectedDate)).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, query, args...)
	return errors.Wrap(err, "InsertReservation")
}

func (s *txStores) UpdateReservation(ctx context.Context, r model.Reservation) error {
	query, args, err := qb.Update(reservationsTableName).
		Set("expected_date", model.Day(r.ExpectedDate)).
		Where(sq.Eq{"borrower_id": r.BorrowerID, "copy_id": r.CopyID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "UpdateReservation")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *txStores) DeleteReservation(ctx context.Context, borrowerID, copyID string) error {
	query, args, err := qb.Delete(reservationsTableName).
		Where(sq.Eq{"borrower_id": borrowerID, "copy_id": copyID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "DeleteReservation")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
