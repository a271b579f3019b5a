package domain

type ActorRole string

const (
	RoleBuyer  ActorRole = "BUYER"
	RoleSeller ActorRole = "SELLER"
	RoleAdmin  ActorRole = "ADMIN"
	RoleSystem ActorRole = "SYSTEM"
)

func (r ActorRole) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Actor is the principal performing an operation. Identity is issued by the
// external auth service; the engine only records it.
type Actor struct {
	ID   string
	Role ActorRole
}

func (a Actor) Validate() error {
	if a.ID == "" {
		return Validationf("actor id is required")
	}
	if !a.Role.Valid() {
		return Validationf("unknown actor role %q", a.Role)
	}
	return nil
}

var SystemActor = Actor{ID: "system", Role: RoleSystem}
