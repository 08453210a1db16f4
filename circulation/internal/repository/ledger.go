package repository

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// copies are stored as one JSONB array per entry, the list order is the checkout order.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *txStores) FindEntry(ctx context.Context, borrowerID string, typ model.EntryType) (model.CirculationEntry, error) {
	query, args, err := qb.Select("id", "borrower_id", "type", "date", "copies").
		From(entriesTableName).
		Where(sq.Eq{"borrower_id": borrowerID, "type": string(typ)}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return model.CirculationEntry{}, err
	}

	var (
		e       model.CirculationEntry
		entType string
		raw     []byte
	)
	err = s.q.QueryRow(ctx, query, args...).Scan(&e.ID, &e.BorrowerID, &entType, &e.Date, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CirculationEntry{}, errs.ErrNotFound
		}
		return model.CirculationEntry{}, err
	}
	e.Type = model.EntryType(entType)
	if err := json.Unmarshal(raw, &e.Copies); err != nil {
		return model.CirculationEntry{}, errors.Wrap(err, "decode copies")
	}
	return e, nil
}

func (s *txStores) InsertEntry(ctx context.Context, e model.CirculationEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	raw, err := encodeCopies(e.Copies)
	if err != nil {
		return err
	}
	query, args, err := qb.Insert(entriesTableName).
		Columns("id", "borrower_id", "type", "date", "copies").
		Values(e.ID, e.BorrowerID, string(e.Type), model.Day(e.Date), raw).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, query, args...)
	return errors.Wrap(err, "InsertEntry")
}

func (s *txStores) UpdateEntry(ctx context.Context, e model.CirculationEntry) error {
	raw, err := encodeCopies(e.Copies)
	if err != nil {
		return err
	}
	query, args, err := qb.Update(entriesTableName).
		Set("date", model.Day(e.Date)).
		Set("copies", raw).
		Where(sq.Eq{"borrower_id": e.BorrowerID, "type": string(e.Type)}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "UpdateEntry")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *txStores) DeleteEntry(ctx context.Context, borrowerID string, typ model.EntryType) error {
	query, args, err := qb.Delete(entriesTableName).
		Where(sq.Eq{"borrower_id": borrowerID, "type": string(typ)}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "DeleteEntry")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func encodeCopies(copies []model.CopyRecord) (string, error) {
	if copies == nil {
		copies = []model.CopyRecord{}
	}
	raw, err := json.MarshalToString(copies)
	if err != nil {
		return "", errors.Wrap(err, "encode copies")
	}
	return raw, nil
}
