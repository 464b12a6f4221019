package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// CustomerUseCase CRUD de clientes.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewCustomerUseCase construye el caso de uso. now en nil usa time.Now.
func NewCustomerUseCase(customerRepo repository.CustomerRepository, now func() time.Time) *CustomerUseCase {
	if now == nil {
		now = time.Now
	}
	return &CustomerUseCase{customerRepo: customerRepo, now: now}
}

// CreateCustomer crea un cliente. El DNI es único.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Nombre == "" || in.Apellido == "" || in.DNI == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.customerRepo.GetByDNI(in.DNI)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	customer := &entity.Cliente{
		ID:        uuid.New().String(),
		Nombre:    in.Nombre,
		Apellido:  in.Apellido,
		Email:     in.Email,
		Telefono:  in.Telefono,
		Direccion: in.Direccion,
		DNI:       in.DNI,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetCustomer obtiene un cliente por ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers lista clientes con paginación simple.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]dto.CustomerResponse, error) {
	customers, err := uc.customerRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// UpdateCustomer actualiza los datos de contacto del cliente. El DNI no cambia.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		customer.Nombre = *in.Nombre
	}
	if in.Apellido != nil {
		customer.Apellido = *in.Apellido
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Telefono != nil {
		customer.Telefono = *in.Telefono
	}
	if in.Direccion != nil {
		customer.Direccion = *in.Direccion
	}
	customer.UpdatedAt = uc.now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// DeleteCustomer elimina un cliente por ID.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.customerRepo.Delete(id)
}

func toCustomerResponse(c *entity.Cliente) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Nombre:    c.Nombre,
		Apellido:  c.Apellido,
		Email:     c.Email,
		Telefono:  c.Telefono,
		Direccion: c.Direccion,
		DNI:       c.DNI,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
