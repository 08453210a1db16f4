package handler

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CirculationService interface {
	Checkout(ctx context.Context, borrowerID, copyID string) (model.CopyRecord, error)
	CheckIn(ctx context.Context, borrowerID, copyID, location string) (model.CheckInResult, error)
	Renew(ctx context.Context, borrowerID, copyID string) (model.CopyRecord, error)
	RequestAvailability(ctx context.Context, copyID string) (model.AvailabilityReport, error)
	Account(ctx context.Context, borrowerID string) (model.Account, error)
}

var _ CirculationService = (*service.Service)(nil)
