package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Copy struct {
	CopyID       string `json:"copyId" db:"copy_id"`
	Title        string `json:"title" db:"title"`
	Author       string `json:"author" db:"author"`
	Genre        string `json:"genre" db:"genre"`
	ISBN         string `json:"isbn" db:"isbn"`
	Branch       Branch `json:"branch" db:"branch"`
	Location     string `json:"location" db:"location"`
	Availability bool   `json:"availability" db:"availability"`
	WaitingList  int    `json:"waitingList" db:"waiting_list"`
}

type Branch string

const (
	BranchLeesSummit  Branch = "Lee's Summit"
	BranchWarrensburg Branch = "Warrensburg"
)

type EntryType string

const (
	EntryCheckOut EntryType = "CheckOut"
	EntryCheckIn  EntryType = "CheckIn"
)

// CopyRecord is one copy inside a circulation entry. Checkout records use ExpiresOn and
// RenewCount, check-in records use CheckedInOn. The unused date stays zero.
type CopyRecord struct {
	CopyID      string    `json:"copyId"`
	ExpiresOn   time.Time `json:"expiresOn"`
	RenewCount  int       `json:"renewCount"`
	CheckedInOn time.Time `json:"checkedInOn"`
}

type CirculationEntry struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	BorrowerID string       `json:"borrowerId" db:"borrower_id"`
	Type       EntryType    `json:"type" db:"type"`
	Date       time.Time    `json:"date" db:"date"`
	Copies     []CopyRecord `json:"copies" db:"copies"`
}

// Find returns the index of the record for copyID, or -1.
func (e CirculationEntry) Find(copyID string) int {
	for i := range e.Copies {
		if e.Copies[i].CopyID == copyID {
			return i
		}
	}
	return -1
}

// Remove drops the record at i keeping the order of the rest.
func (e *CirculationEntry) Remove(i int) {
	copies := make([]CopyRecord, 0, len(e.Copies)-1)
	copies = append(copies, e.Copies[:i]...)
	e.Copies = append(copies, e.Copies[i+1:]...)
}

func (e CirculationEntry) Clone() CirculationEntry {
	e.Copies = append([]CopyRecord(nil), e.Copies...)
	return e
}

type Reservation struct {
	BorrowerID   string    `json:"borrowerId" db:"borrower_id"`
	CopyID       string    `json:"copyId" db:"copy_id"`
	ExpectedDate time.Time `json:"expectedDate" db:"expected_date"`
}

type Account struct {
	BorrowerID string `json:"borrowerId" db:"borrower_id"`
	Email      string `json:"email" db:"email"`
	DueAmount  int64  `json:"dueAmount" db:"due_amount"`
}

type AvailabilityState string

const (
	AvailabilityDue      AvailabilityState = "due"
	AvailabilityOnShelf  AvailabilityState = "on_shelf"
	AvailabilityRecorded AvailabilityState = "recorded"
)

type AvailabilityReport struct {
	CopyID       string            `json:"copyId"`
	State        AvailabilityState `json:"state"`
	ExpectedDate *Date             `json:"expectedDate,omitempty"`
	Location     string            `json:"location,omitempty"`
	Branch       Branch            `json:"branch,omitempty"`
	WaitingList  int               `json:"waitingList"`
	Message      string            `json:"message"`
}

type CheckInResult struct {
	CopyID   string `json:"copyId"`
	LateDays int    `json:"lateDays"`
	LateFee  int64  `json:"lateFee"`
}

type CheckoutRequest struct {
	CopyID string `json:"copyId" validate:"required,max=64"`
}

type RenewRequest struct {
	CopyID string `json:"copyId" validate:"required,max=64"`
}

type CheckInRequest struct {
	BorrowerID string `json:"borrowerId" validate:"required,max=64"`
	CopyID     string `json:"copyId" validate:"required,max=64"`
	Location   string `json:"location" validate:"required,max=128"`
}

type LoanResponse struct {
	CopyID     string `json:"copyId"`
	ExpiresOn  Date   `json:"expiresOn"`
	RenewsLeft int    `json:"renewsLeft"`
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: Day(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(time.DateOnly, strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Day truncates t to the start of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
