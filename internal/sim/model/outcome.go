package model

// Outcome is the reducer's side channel for intent results. Rejections are
// silent at the state level — the snapshot comes back untouched — and the
// outcome carries the code for journaling and client feedback.
type Outcome struct {
	Code    string `json:"code"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

const (
	CodeOK = "OK"

	// Payload/shape validation.
	ErrBadRequest  = "E_BAD_REQUEST"
	ErrUnknownType = "E_UNKNOWN_TYPE"

	// Rule layer.
	ErrPhase         = "E_PHASE"
	ErrNoPermission  = "E_NO_PERMISSION"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrOccupied      = "E_OCCUPIED"
	ErrOutOfRange    = "E_OUT_OF_RANGE"
	ErrNoResource    = "E_NO_RESOURCE"
)

// Accepted is the outcome of an applied intent.
func Accepted() Outcome { return Outcome{Code: CodeOK, Applied: true} }

// Rejected is the outcome of a refused intent.
func Rejected(code, reason string) Outcome { return Outcome{Code: code, Reason: reason} }
