package FE2D

import "errors"

var (
	// ErrDegenerateElement indicates an element with a zero Jacobian determinant.
	ErrDegenerateElement = errors.New("degenerate element")

	// ErrIndexOutOfRange indicates a connectivity or boundary index outside the node range.
	ErrIndexOutOfRange = errors.New("node index out of range")

	// ErrSingularSystem indicates an under constrained global system, for
	// example no Dirichlet nodes or a disconnected mesh component.
	ErrSingularSystem = errors.New("singular global system")
)
