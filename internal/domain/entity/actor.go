package entity

// Actor quién ejecuta una operación. Se construye por request a partir del
// usuario autenticado y se pasa explícitamente a cada caso de uso.
type Actor struct {
	UserID            string
	Role              Role
	AssignedClientID  string
	AssignedClientIDs []string
}

// ActorFromUser arma el Actor desde el usuario persistido.
func ActorFromUser(u *User) Actor {
	return Actor{
		UserID:            u.ID,
		Role:              u.Role,
		AssignedClientID:  u.AssignedClientID,
		AssignedClientIDs: u.ClientIDs(),
	}
}

// CanSeeClient indica si el actor tiene visibilidad sobre los pedidos del cliente.
func (a Actor) CanSeeClient(clientID string) bool {
	switch {
	case a.Role == RoleAdmin, a.Role.IsWarehouse():
		return true
	case a.Role == RoleCliente:
		return a.AssignedClientID != "" && a.AssignedClientID == clientID
	case a.Role == RoleVendedor:
		for _, id := range a.AssignedClientIDs {
			if id == clientID {
				return true
			}
		}
	}
	return false
}

// WarehouseScope especialidad de bodega. Un solo tipo cubre las tres bodegas.
type WarehouseScope string

const (
	ScopeSecos        WarehouseScope = "secos"
	ScopeRefrigerados WarehouseScope = "refrigerados"
	ScopeBarra        WarehouseScope = "barra"
)

// ScopeForRole devuelve la especialidad del rol de bodega.
func ScopeForRole(r Role) (WarehouseScope, bool) {
	switch r {
	case RoleBodegaSecos:
		return ScopeSecos, true
	case RoleBodegaRefrigerados:
		return ScopeRefrigerados, true
	case RoleBodegaBarra:
		return ScopeBarra, true
	}
	return "", false
}

// Covers: la bodega ve sus productos y los mixtos.
func (s WarehouseScope) Covers(t WarehouseType) bool {
	return t == WarehouseMixto || string(t) == string(s)
}
