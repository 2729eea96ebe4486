package entity

import "time"

// Role rol de un usuario del sistema.
type Role string

// Roles válidos para User.
const (
	RoleCliente            Role = "cliente"
	RoleBodegaSecos        Role = "bodega_secos"
	RoleBodegaRefrigerados Role = "bodega_refrigerados"
	RoleBodegaBarra        Role = "bodega_barra"
	RoleVendedor           Role = "vendedor"
	RoleAdmin              Role = "admin"
)

var Roles = []Role{RoleCliente, RoleBodegaSecos, RoleBodegaRefrigerados, RoleBodegaBarra, RoleVendedor, RoleAdmin}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// IsWarehouse indica si el rol es de bodega.
func (r Role) IsWarehouse() bool {
	_, ok := ScopeForRole(r)
	return ok
}

// ClientRef referencia a cliente asignada a un vendedor.
type ClientRef struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

// User usuario de la aplicación. Las asignaciones dependen del rol:
// cliente usa AssignedClientID, vendedor usa AssignedClients, bodega y admin ninguna.
type User struct {
	ID                 string
	FullName           string
	Email              string
	PasswordHash       string // bcrypt
	Role               Role
	AssignedClientID   string
	AssignedClientName string
	AssignedClients    []ClientRef
	Phone              string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ClientIDs ids de los clientes del vendedor.
func (u *User) ClientIDs() []string {
	ids := make([]string, 0, len(u.AssignedClients))
	for _, c := range u.AssignedClients {
		ids = append(ids, c.ClientID)
	}
	return ids
}
