package repository

import "github.com/AbdiasMQ/Practico-final/internal/domain/entity"

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Cliente) error
	GetByID(id string) (*entity.Cliente, error)
	GetByDNI(dni string) (*entity.Cliente, error)
	List(limit, offset int) ([]*entity.Cliente, error)
	Update(customer *entity.Cliente) error
	Delete(id string) error
}
