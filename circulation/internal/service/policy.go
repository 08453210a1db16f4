package service

import "time"

type Policy struct {
	LoanDays        int   `yaml:"loanDays" envconfig:"LOAN_DAYS" default:"30"`
	LateFeePerDay   int64 `yaml:"lateFeePerDay" envconfig:"LATE_FEE_PER_DAY" default:"10"`
	InitialRenewals int   `yaml:"initialRenewals" envconfig:"INITIAL_RENEWALS" default:"1"`
}

func DefaultPolicy() Policy {
	return Policy{
		LoanDays:        30,
		LateFeePerDay:   10,
		InitialRenewals: 1,
	}
}

func (p Policy) dueDate(today time.Time) time.Time {
	return today.AddDate(0, 0, p.LoanDays)
}
