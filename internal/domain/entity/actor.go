package entity

// Actor es el usuario que ejecuta una operación. Se construye desde el token
// y se pasa explícitamente a cada caso de uso.
type Actor struct {
	UserID     string
	EmployeeID string
	Roles      []string
}

// HasRole indica si el actor pertenece al grupo indicado.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
