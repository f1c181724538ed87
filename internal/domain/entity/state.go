package entity

// State estado del flujo de aprobación de un documento.
type State string

// Estados usados por los documentos de inventario y las requisiciones.
const (
	StateDraft       State = "draft"
	StateSubmitted   State = "submitted"
	StateRequested   State = "requested"
	StateLineManager State = "line_manager"
	StateChecked     State = "checked"
	StateVerify      State = "verify"
	StateReviewed    State = "reviewed"
	StateApproved    State = "approved"
	StateIssued      State = "issued"
	StateAuthorized  State = "authorized"
	StateRejected    State = "rejected"
)

func (s State) String() string { return string(s) }

// DocumentFilter filtro de listados (estado opcional y paginación).
type DocumentFilter struct {
	States        []State // vacío = todos
	ExcludeStates []State
	Limit         int
	Offset        int
}

// Matches indica si un estado pasa el filtro.
func (f DocumentFilter) Matches(s State) bool {
	for _, ex := range f.ExcludeStates {
		if ex == s {
			return false
		}
	}
	if len(f.States) == 0 {
		return true
	}
	for _, in := range f.States {
		if in == s {
			return true
		}
	}
	return false
}
