package repository

import "github.com/AbdiasMQ/Practico-final/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios de la aplicación.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
}
