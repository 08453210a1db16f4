package repository

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

func (s *txStores) LookupBorrower(ctx context.Context, borrowerID string) (model.Account, error) {
	query, args, err := qb.Select("borrower_id", "email", "due_amount").
		From(accountsTableName).
		Where(sq.Eq{"borrower_id": borrowerID}).
		ToSql()
	if err != nil {
		return model.Account{}, err
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return model.Account{}, err
	}
	defer rows.Close()

	acc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, errs.ErrNotFound
		}
		return model.Account{}, err
	}
	return acc, nil
}

func (s *txStores) InsertAccount(ctx context.Context, a model.Account) error {
	query, args, err := qb.Insert(accountsTableName).
		Columns("borrower_id", "email", "due_amount").
		Values(a.BorrowerID, a.Email, a.DueAmount).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = s.q.Exec(ctx, query, args...); err != nil {
		if pgCode(err) == pgerrcode.CheckViolation {
			return errs.ErrNegativeBalance
		}
		return errors.Wrap(err, "InsertAccount")
	}
	return nil
}

// AdjustDueAmount adds delta to the balance; the check constraint keeps it non-negative.
func (s *txStores) AdjustDueAmount(ctx context.Context, borrowerID string, delta int64) error {
	query, args, err := qb.Update(accountsTableName).
		Set("due_amount", sq.Expr("due_amount + ?", delta)).
		Where(sq.Eq{"borrower_id": borrowerID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		if pgCode(err) == pgerrcode.CheckViolation {
			return errs.ErrNegativeBalance
		}
		return errors.Wrap(err, "AdjustDueAmount")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *txStores) DeleteAccount(ctx context.Context, borrowerID string) error {
	query, args, err := qb.Delete(accountsTableName).
		Where(sq.Eq{"borrower_id": borrowerID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "DeleteAccount")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
