package service

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"
)

// CustomerService is thin CRUD over customers. Customers are never deleted,
// only deactivated; their ledger history must stay replayable.
type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, id string, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Email:   req.Email,
		Active:  true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customerID, err := parseID("customer_id", id)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", id)
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerListResponse{
		Data:  make([]dto.CustomerResponse, 0, len(customers)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range customers {
		resp.Data = append(resp.Data, customerToResponse(&customers[i]))
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, id string, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customerID, err := parseID("customer_id", id)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", id)
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Email = req.Email
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) Deactivate(ctx context.Context, id string) error {
	customerID, err := parseID("customer_id", id)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return apierror.NotFound("customer %s not found", id)
	}
	return s.repo.Deactivate(ctx, customerID)
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
		Email:   c.Email,
		Active:  c.Active,
	}
}
