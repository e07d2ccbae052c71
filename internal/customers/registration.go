package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/salonworks/pos-terminal/pkg/backend"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type registrar interface {
	UpsertCustomer(ctx context.Context, payload backend.CustomerPayload) (*backend.CustomerRecord, error)
}

// RegistrationService creates directory entries for customers resolved as
// new at the register.
type RegistrationService interface {
	Register(ctx context.Context, name, phone, email string) (*backend.CustomerRecord, error)
}

type registrationService struct {
	registrar registrar
	logger    *logger.Logger
}

func NewRegistrationService(reg registrar, logg *logger.Logger) (RegistrationService, error) {
	if reg == nil {
		return nil, fmt.Errorf("customer registrar required")
	}
	return &registrationService{registrar: reg, logger: logg}, nil
}

// Register validates the required fields and hands the payload to the
// directory, which assigns identity.
func (s *registrationService) Register(ctx context.Context, name, phone, email string) (*backend.CustomerRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	normalized := NormalizePhone(phone)
	if !IsComplete(normalized) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a ten digit phone number is required")
	}

	customer, err := s.registrar.UpsertCustomer(ctx, backend.CustomerPayload{
		Name:  name,
		Phone: normalized,
		Email: strings.TrimSpace(email),
	})
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info(ctx, "customer registered")
	}
	return customer, nil
}
