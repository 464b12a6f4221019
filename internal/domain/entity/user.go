package entity

import "time"

// UsuarioSistema actor centinela para operaciones sin sesión autenticada.
const UsuarioSistema = "Sistema"

// User usuario de la aplicación (autenticación).
type User struct {
	ID           string
	Username     string // único; se usa como actor en los movimientos de stock
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
