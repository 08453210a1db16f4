package repository

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var copyColumns = []string{"copy_id", "title", "author", "genre", "isbn", "branch", "location", "availability", "waiting_list"}

// FindCopy locks the copy row until the surrounding transaction ends.
func (s *txStores) FindCopy(ctx context.Context, copyID string) (model.Copy, error) {
	query, args, err := qb.Select(copyColumns...).
		From(copiesTableName).
		Where(sq.Eq{"copy_id": copyID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return model.Copy{}, err
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return model.Copy{}, err
	}
	defer rows.Close()

	c, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Copy])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Copy{}, errs.ErrNotFound
		}
		s.log.Error("FindCopy", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Copy{}, err
	}
	return c, nil
}

func (s *txStores) InsertCopy(ctx context.Context, c model.Copy) error {
	query, args, err := qb.Insert(copiesTableName).
		Columns(copyColumns...).
		Values(c.CopyID, c.Title, c.Author, c.Genre, c.ISBN, c.Branch, c.Location, c.Availability, c.WaitingList).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, query, args...)
	return errors.Wrap(err, "InsertCopy")
}

func (s *txStores) UpdateCopy(ctx context.Context, c model.Copy) error {
	query, args, err := qb.Update(copiesTableName).
		SetMap(map[string]any{
			"title":        c.Title,
			"author":       c.Author,
			"genre":        c.Genre,
			"isbn":         c.ISBN,
			"branch":       c.Branch,
			"location":     c.Location,
			"availability": c.Availability,
			"waiting_list": c.WaitingList,
		}).
		Where(sq.Eq{"copy_id": c.CopyID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "UpdateCopy")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *txStores) DeleteCopy(ctx context.Context, copyID string) error {
	query, args, err := qb.Delete(copiesTableName).
		Where(sq.Eq{"copy_id": copyID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "DeleteCopy")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
