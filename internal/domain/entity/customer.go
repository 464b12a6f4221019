package entity

import "time"

// Cliente representa un cliente de la empresa.
type Cliente struct {
	ID        string
	Nombre    string
	Apellido  string
	Email     string
	Telefono  string
	Direccion string
	DNI       string // documento de identidad, único
	CreatedAt time.Time
	UpdatedAt time.Time
}
