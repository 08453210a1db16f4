package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/pkg/keylock"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxIDLen       = 64
	maxLocationLen = 128
	notifyTimeout  = 5 * time.Second
)

// Notifier delivers a message to a borrower. Delivery is best effort.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, string, string, string) error { return nil }

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock replaces time.Now, tests use it to move between days.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the circulation engine. Every operation touching a copy holds that copy's lock
// and commits all of its store writes in one transaction.
type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	notifier Notifier
	locks    *keylock.KeyLock
	policy   Policy
	now      func() time.Time
	tracer   trace.Tracer
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log.Named("service"),
		repo:     repo,
		notifier: nopNotifier{},
		locks:    keylock.New(),
		policy:   DefaultPolicy(),
		now:      time.Now,
		tracer:   otel.Tracer("circulation/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, borrowerID, copyID string) (rec model.CopyRecord, err error) {
	ctx, span := s.startSpan(ctx, "Checkout", borrowerID, copyID)
	defer func() { endSpan(span, err) }()

	if err := validateIDs(borrowerID, copyID); err != nil {
		return model.CopyRecord{}, err
	}
	unlock := s.locks.Lock(copyID)
	defer unlock()

	today := s.today()
	var account model.Account
	err = s.repo.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		acc, err := st.Fees().LookupBorrower(ctx, borrowerID)
		if err != nil {
			return wrap("lookup borrower", err)
		}
		account = acc

		c, err := st.Catalog().FindCopy(ctx, copyID)
		if err != nil {
			return wrap("find copy", err)
		}
		if !c.Availability {
			return errs.ErrAlreadyCheckedOut
		}
		c.Availability = false
		if err := st.Catalog().UpdateCopy(ctx, c); err != nil {
			return wrap("update copy", err)
		}

		rec = model.CopyRecord{
			CopyID:     copyID,
			ExpiresOn:  s.policy.dueDate(today),
			RenewCount: s.policy.InitialRenewals,
		}
		if err := s.appendCheckout(ctx, st.Circulation(), borrowerID, today, rec); err != nil {
			return err
		}

		s.refreshReservation(ctx, st, model.Reservation{
			BorrowerID:   borrowerID,
			CopyID:       copyID,
			ExpectedDate: rec.ExpiresOn,
		})
		return nil
	})
	if err != nil {
		return model.CopyRecord{}, err
	}

	s.log.Info("checkout",
		zap.String("borrower", borrowerID),
		zap.String("copy", copyID),
		zap.Time("expires_on", rec.ExpiresOn))
	s.notify(ctx, account.Email, "Checkout confirmation",
		fmt.Sprintf("Copy %s is checked out to you until %s.", copyID, rec.ExpiresOn.Format(time.DateOnly)))
	return rec, nil
}

func (s *Service) CheckIn(ctx context.Context, borrowerID, copyID, location string) (res model.CheckInResult, err error) {
	ctx, span := s.startSpan(ctx, "CheckIn", borrowerID, copyID)
	defer func() { endSpan(span, err) }()

	if err := validateIDs(borrowerID, copyID); err != nil {
		return model.CheckInResult{}, err
	}
	location = strings.TrimSpace(location)
	if location == "" || len(location) > maxLocationLen {
		return model.CheckInResult{}, errors.Wrap(errs.ErrInvalidInput, "location")
	}
	unlock := s.locks.Lock(copyID)
	defer unlock()

	today := s.today()
	res.CopyID = copyID
	var account model.Account
	err = s.repo.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		c, err := st.Catalog().FindCopy(ctx, copyID)
		if err != nil {
			return wrap("find copy", err)
		}
		c.Availability = true
		c.Location = location
		c.WaitingList = 0
		if err := st.Catalog().UpdateCopy(ctx, c); err != nil {
			return wrap("update copy", err)
		}

		err = st.Reservations().DeleteReservation(ctx, borrowerID, copyID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return wrap("delete reservation", err)
		}

		if err := s.appendCheckIn(ctx, st.Circulation(), borrowerID, today, copyID); err != nil {
			return err
		}

		entry, err := st.Circulation().FindEntry(ctx, borrowerID, model.EntryCheckOut)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.ErrNoOpenTransaction
			}
			return wrap("find checkout entry", err)
		}
		i := entry.Find(copyID)
		if i < 0 {
			return errs.ErrNoOpenTransaction
		}

		res.LateDays = LateDays(entry.Copies[i].ExpiresOn, today)
		res.LateFee = AccrueLateFee(entry.Copies[i].ExpiresOn, today, s.policy.LateFeePerDay)
		if res.LateFee > 0 {
			if err := st.Fees().AdjustDueAmount(ctx, borrowerID, res.LateFee); err != nil {
				return wrap("accrue late fee", err)
			}
		}

		entry.Remove(i)
		if err := st.Circulation().UpdateEntry(ctx, entry); err != nil {
			return wrap("update checkout entry", err)
		}

		if account, err = st.Fees().LookupBorrower(ctx, borrowerID); err != nil {
			return wrap("lookup borrower", err)
		}
		return nil
	})
	if err != nil {
		return model.CheckInResult{}, err
	}

	s.log.Info("checkin",
		zap.String("borrower", borrowerID),
		zap.String("copy", copyID),
		zap.Int("late_days", res.LateDays),
		zap.Int64("late_fee", res.LateFee))

	body := fmt.Sprintf("Copy %s was returned on %s.", copyID, today.Format(time.DateOnly))
	if res.LateFee > 0 {
		body += fmt.Sprintf(" It was %d day(s) late, a fee of %d was added; your balance is %d.",
			res.LateDays, res.LateFee, account.DueAmount)
	}
	s.notify(ctx, account.Email, "Return receipt", body)
	return res, nil
}

func (s *Service) Renew(ctx context.Context, borrowerID, copyID string) (rec model.CopyRecord, err error) {
	ctx, span := s.startSpan(ctx, "Renew", borrowerID, copyID)
	defer func() { endSpan(span, err) }()

	if err := validateIDs(borrowerID, copyID); err != nil {
		return model.CopyRecord{}, err
	}
	unlock := s.locks.Lock(copyID)
	defer unlock()

	today := s.today()
	var account model.Account
	err = s.repo.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		if _, err := st.Catalog().FindCopy(ctx, copyID); err != nil {
			return wrap("find copy", err)
		}

		entry, err := st.Circulation().FindEntry(ctx, borrowerID, model.EntryCheckOut)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return wrap("find checkout entry", err)
		}
		i := -1
		if err == nil {
			i = entry.Find(copyID)
		}
		if i < 0 {
			return s.whyNotRenewable(ctx, st.Circulation(), borrowerID, copyID)
		}

		if entry.Copies[i].RenewCount <= 0 {
			return errs.ErrRenewalExhausted
		}
		entry.Copies[i].RenewCount--
		entry.Copies[i].ExpiresOn = s.policy.dueDate(today)
		if err := st.Circulation().UpdateEntry(ctx, entry); err != nil {
			return wrap("update checkout entry", err)
		}
		rec = entry.Copies[i]

		s.refreshReservation(ctx, st, model.Reservation{
			BorrowerID:   borrowerID,
			CopyID:       copyID,
			ExpectedDate: rec.ExpiresOn,
		})

		if account, err = st.Fees().LookupBorrower(ctx, borrowerID); err != nil {
			return wrap("lookup borrower", err)
		}
		return nil
	})
	if err != nil {
		return model.CopyRecord{}, err
	}

	s.log.Info("renew",
		zap.String("borrower", borrowerID),
		zap.String("copy", copyID),
		zap.Int("renews_left", rec.RenewCount),
		zap.Time("expires_on", rec.ExpiresOn))
	s.notify(ctx, account.Email, "Loan renewed",
		fmt.Sprintf("Copy %s is now due on %s.", copyID, rec.ExpiresOn.Format(time.DateOnly)))
	return rec, nil
}

// whyNotRenewable tells a returned copy apart from one that was never lent to the borrower.
func (s *Service) whyNotRenewable(ctx context.Context, ledger repository.CirculationLedger, borrowerID, copyID string) error {
	checkIns, err := ledger.FindEntry(ctx, borrowerID, model.EntryCheckIn)
	switch {
	case err == nil && checkIns.Find(copyID) >= 0:
		return errs.ErrAlreadyCheckedIn
	case err != nil && !errors.Is(err, errs.ErrNotFound):
		return wrap("find checkin entry", err)
	}
	return errs.ErrNoOpenTransaction
}

// RequestAvailability reports when copyID can be expected on the shelf. Asking about a copy
// that is out puts the request on the copy's waiting list.
func (s *Service) RequestAvailability(ctx context.Context, copyID string) (report model.AvailabilityReport, err error) {
	ctx, span := s.startSpan(ctx, "RequestAvailability", "", copyID)
	defer func() { endSpan(span, err) }()

	if err := validateID("copy id", copyID); err != nil {
		return model.AvailabilityReport{}, err
	}
	unlock := s.locks.Lock(copyID)
	defer unlock()

	err = s.repo.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		c, err := st.Catalog().FindCopy(ctx, copyID)
		if err != nil {
			return wrap("find copy", err)
		}
		report = model.AvailabilityReport{CopyID: copyID, WaitingList: c.WaitingList}

		if c.Availability {
			report.State = model.AvailabilityOnShelf
			report.Location = c.Location
			report.Branch = c.Branch
			report.Message = fmt.Sprintf("available at %s, %s", c.Branch, c.Location)
			return nil
		}

		err = st.Savepoint(ctx, func(ctx context.Context, sp repository.Stores) error {
			c.WaitingList++
			return sp.Catalog().UpdateCopy(ctx, c)
		})
		if err != nil {
			s.log.Warn("waiting list not updated", zap.String("copy", copyID), zap.Error(err))
		} else {
			report.WaitingList = c.WaitingList
		}

		rsv, err := st.Reservations().FindReservationByCopy(ctx, copyID)
		switch {
		case err == nil:
			d := model.NewDate(rsv.ExpectedDate)
			report.State = model.AvailabilityDue
			report.ExpectedDate = &d
			report.Message = "expected to be available on " + d.Format(time.DateOnly)
		case errors.Is(err, errs.ErrNotFound):
			report.State = model.AvailabilityRecorded
			report.Message = "request recorded, no further information"
		default:
			return wrap("find reservation", err)
		}
		return nil
	})
	if err != nil {
		return model.AvailabilityReport{}, err
	}
	return report, nil
}

// Account returns the borrower's directory record with the outstanding balance.
func (s *Service) Account(ctx context.Context, borrowerID string) (model.Account, error) {
	if err := validateID("borrower id", borrowerID); err != nil {
		return model.Account{}, err
	}
	var acc model.Account
	err := s.repo.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		a, err := st.Fees().LookupBorrower(ctx, borrowerID)
		if err != nil {
			return wrap("lookup borrower", err)
		}
		acc = a
		return nil
	})
	return acc, err
}

func (s *Service) appendCheckout(ctx context.Context, ledger repository.CirculationLedger, borrowerID string, today time.Time, rec model.CopyRecord) error {
	entry, err := ledger.FindEntry(ctx, borrowerID, model.EntryCheckOut)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return wrap("insert checkout entry", ledger.InsertEntry(ctx, model.CirculationEntry{
			BorrowerID: borrowerID,
			Type:       model.EntryCheckOut,
			Date:       today,
			Copies:     []model.CopyRecord{rec},
		}))
	case err != nil:
		return wrap("find checkout entry", err)
	}
	if entry.Find(rec.CopyID) >= 0 {
		return errs.ErrAlreadyCheckedOut
	}
	entry.Date = today
	entry.Copies = append(entry.Copies, rec)
	return wrap("update checkout entry", ledger.UpdateEntry(ctx, entry))
}

func (s *Service) appendCheckIn(ctx context.Context, ledger repository.CirculationLedger, borrowerID string, today time.Time, copyID string) error {
	rec := model.CopyRecord{CopyID: copyID, CheckedInOn: today}
	entry, err := ledger.FindEntry(ctx, borrowerID, model.EntryCheckIn)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return wrap("insert checkin entry", ledger.InsertEntry(ctx, model.CirculationEntry{
			BorrowerID: borrowerID,
			Type:       model.EntryCheckIn,
			Date:       today,
			Copies:     []model.CopyRecord{rec},
		}))
	case err != nil:
		return wrap("find checkin entry", err)
	}
	entry.Date = today
	entry.Copies = append(entry.Copies, rec)
	return wrap("update checkin entry", ledger.UpdateEntry(ctx, entry))
}

// refreshReservation updates or creates the reservation. A failure here is logged and
// rolled back to the savepoint; it never fails the loan itself.
func (s *Service) refreshReservation(ctx context.Context, st repository.Stores, rsv model.Reservation) {
	err := st.Savepoint(ctx, func(ctx context.Context, sp repository.Stores) error {
		err := sp.Reservations().UpdateReservation(ctx, rsv)
		if errors.Is(err, errs.ErrNotFound) {
			return sp.Reservations().InsertReservation(ctx, rsv)
		}
		return err
	})
	if err != nil {
		s.log.Warn("reservation not refreshed",
			zap.String("borrower", rsv.BorrowerID),
			zap.String("copy", rsv.CopyID),
			zap.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.Send(ctx, to, subject, body); err != nil {
		s.log.Warn("notification not sent",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}

func (s *Service) today() time.Time {
	return model.Day(s.now())
}

func (s *Service) startSpan(ctx context.Context, op, borrowerID, copyID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("copy.id", copyID)}
	if borrowerID != "" {
		attrs = append(attrs, attribute.String("borrower.id", borrowerID))
	}
	return s.tracer.Start(ctx, "circulation."+op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

var domainErrors = []error{
	errs.ErrNotFound,
	errs.ErrAlreadyCheckedIn,
	errs.ErrAlreadyCheckedOut,
	errs.ErrNoOpenTransaction,
	errs.ErrRenewalExhausted,
	errs.ErrInvalidInput,
	errs.ErrNegativeBalance,
}

// wrap passes domain errors through and marks everything else as a persistence failure.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", errs.ErrPersistence, op, err)
}

func validateIDs(borrowerID, copyID string) error {
	if err := validateID("borrower id", borrowerID); err != nil {
		return err
	}
	return validateID("copy id", copyID)
}

func validateID(name, id string) error {
	if id == "" || len(id) > maxIDLen || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return errors.Wrap(errs.ErrInvalidInput, name)
	}
	return nil
}
