package service

import (
	"context"
	"errors"
	"strings"

	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"
	"github.com/segyhp/microloan-engine/internal/storage"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/utils"

	"go.uber.org/zap"
)

const (
	documentKindID       = "id"
	documentKindPassport = "passport"
)

const emailTakenMessage = "Email already exists."

// CustomerService maintains borrower master data.
type CustomerService struct {
	CustomerRepo repository.CustomerRepository
	storage      storage.DocumentStorage
	clock        clock.Clock
	config       *config.Config
	logger       *zap.Logger
}

// NewCustomerService wires the service. documents may be nil, in which case
// requests carrying documents are rejected.
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	documents storage.DocumentStorage,
	clk clock.Clock,
	config *config.Config,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		CustomerRepo: customerRepo,
		storage:      documents,
		clock:        clk,
		config:       config,
		logger:       logger,
	}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, p domain.Principal, request *domain.CreateCustomerRequest) (*domain.Customer, error) {
	if err := authorize(p, "create customers", staffRoles...); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(request.Email)
	if email == "" {
		return nil, customError.WrapInvalidArgument("email is required")
	}
	if request.MonthlyIncome.IsNegative() {
		return nil, customError.WrapInvalidArgument("monthly income must not be negative")
	}

	taken, err := s.CustomerRepo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if taken {
		return nil, customError.WrapConflict(emailTakenMessage)
	}

	customer := &domain.Customer{
		FullName:              strings.TrimSpace(request.FullName),
		DateOfBirth:           request.DateOfBirth,
		Gender:                request.Gender,
		MaritalStatus:         request.MaritalStatus,
		ResidentialAddress:    request.ResidentialAddress,
		Email:                 email,
		PhoneNumber:           request.PhoneNumber,
		EmploymentStatus:      request.EmploymentStatus,
		MonthlyIncome:         request.MonthlyIncome,
		IDType:                request.IDType,
		IDNumber:              request.IDNumber,
		NIN:                   request.NIN,
		BVN:                   request.BVN,
		GuarantorFullName:     request.Guarantor.FullName,
		GuarantorRelationship: request.Guarantor.RelationshipToBorrower,
		GuarantorAddress:      request.Guarantor.ResidentialAddress,
		GuarantorPhone:        request.Guarantor.PhoneNumber,
		GuarantorEmail:        request.Guarantor.Email,
		CreatedAt:             s.clock.Now(),
	}

	if customer.IDPhotoURL, err = s.upload(ctx, request.IdentificationDocument, documentKindID); err != nil {
		return nil, err
	}
	if customer.PassportPhotoURL, err = s.upload(ctx, request.PassportPhoto, documentKindPassport); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapConflict(emailTakenMessage)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID), zap.String("created_by", p.ID))
	return customer, nil
}

// UpdateCustomer applies the non-nil fields of request
func (s *CustomerService) UpdateCustomer(ctx context.Context, p domain.Principal, customerID int64, request *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	if err := authorize(p, "update customers", staffRoles...); err != nil {
		return nil, err
	}

	customer, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, lookupError(err, "Customer", customerID)
	}

	if request.Email != nil && strings.TrimSpace(*request.Email) != "" {
		email := strings.TrimSpace(*request.Email)
		taken, err := s.CustomerRepo.EmailTaken(ctx, email, customerID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		if taken {
			return nil, customError.WrapConflict(emailTakenMessage)
		}
		customer.Email = email
	}
	if request.MonthlyIncome != nil {
		if request.MonthlyIncome.IsNegative() {
			return nil, customError.WrapInvalidArgument("monthly income must not be negative")
		}
		customer.MonthlyIncome = *request.MonthlyIncome
	}
	if request.DateOfBirth != nil {
		customer.DateOfBirth = *request.DateOfBirth
	}

	setString(&customer.FullName, request.FullName)
	setString(&customer.Gender, request.Gender)
	setString(&customer.MaritalStatus, request.MaritalStatus)
	setString(&customer.ResidentialAddress, request.ResidentialAddress)
	setString(&customer.PhoneNumber, request.PhoneNumber)
	setString(&customer.EmploymentStatus, request.EmploymentStatus)
	setString(&customer.IDType, request.IDType)
	setString(&customer.IDNumber, request.IDNumber)
	setString(&customer.NIN, request.NIN)
	setString(&customer.BVN, request.BVN)

	if g := request.Guarantor; g != nil {
		setString(&customer.GuarantorFullName, &g.FullName)
		setString(&customer.GuarantorRelationship, &g.RelationshipToBorrower)
		setString(&customer.GuarantorAddress, &g.ResidentialAddress)
		setString(&customer.GuarantorPhone, &g.PhoneNumber)
		setString(&customer.GuarantorEmail, &g.Email)
	}

	if err := s.CustomerRepo.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapConflict(emailTakenMessage)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("Customer updated", zap.Int64("customer_id", customerID), zap.String("updated_by", p.ID))
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	customer, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, lookupError(err, "Customer", customerID)
	}
	return customer, nil
}

// ListCustomers pages through customers, newest first, optionally matching
// search against the name or exact ID
func (s *CustomerService) ListCustomers(ctx context.Context, search string, page, pageSize int) (*domain.CustomerListResponse, error) {
	page, pageSize = utils.NormalizePage(page, pageSize, s.config.Business.DefaultPageSize, s.config.Business.MaxPageSize)

	customers, total, err := s.CustomerRepo.List(ctx, search, pageSize, utils.Offset(page, pageSize))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.CustomerListResponse{
		Customers:  customers,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// DeleteCustomer removes the customer together with all of their loans
func (s *CustomerService) DeleteCustomer(ctx context.Context, p domain.Principal, customerID int64) error {
	if err := authorize(p, "delete customers", staffRoles...); err != nil {
		return err
	}

	deleted, err := s.CustomerRepo.Delete(ctx, customerID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !deleted {
		return customError.WrapNotFound("Customer", customerID)
	}

	s.logger.Info("Customer deleted", zap.Int64("customer_id", customerID), zap.String("deleted_by", p.ID))
	return nil
}

func (s *CustomerService) upload(ctx context.Context, doc *domain.Document, kind string) (string, error) {
	if doc == nil {
		return "", nil
	}
	if s.storage == nil {
		return "", customError.WrapStorageError(storage.ErrStorageDisabled)
	}

	url, err := s.storage.Upload(ctx, doc, kind)
	if err != nil {
		s.logger.Error("Document upload failed", zap.String("kind", kind), zap.Error(err))
		return "", customError.WrapStorageError(err)
	}

	return url, nil
}

// setString overwrites dst with a non-empty value
func setString(dst *string, value *string) {
	if value != nil && *value != "" {
		*dst = *value
	}
}
