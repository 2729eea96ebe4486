package dto

import "time"

// CreateUserRequest alta de un usuario por el administrador (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"max=30"`
	UserAssignment
}

// UserAssignment rol y clientes asignados.
type UserAssignment struct {
	Role              string   `json:"user_role" validate:"required,oneof=cliente bodega_secos bodega_refrigerados bodega_barra vendedor admin"`
	AssignedClientID  string   `json:"assigned_client_id" validate:"omitempty,uuid"`
	AssignedClientIDs []string `json:"assigned_client_ids" validate:"omitempty,dive,uuid"`
}

// UpdateUserRequest edición de rol, asignaciones y contacto.
type UpdateUserRequest struct {
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Phone    string `json:"phone" validate:"max=30"`
	IsActive *bool  `json:"is_active"`
	UserAssignment
}

// ClientRefResponse cliente asignado a un vendedor.
type ClientRefResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                 string              `json:"id"`
	FullName           string              `json:"full_name"`
	Email              string              `json:"email"`
	Role               string              `json:"user_role"`
	AssignedClientID   string              `json:"assigned_client_id,omitempty"`
	AssignedClientName string              `json:"assigned_client_name,omitempty"`
	AssignedClients    []ClientRefResponse `json:"assigned_clients"`
	Phone              string              `json:"phone,omitempty"`
	IsActive           bool                `json:"is_active"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
