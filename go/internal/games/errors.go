package games

import (
	"fmt"

	"github.com/mcdev12/gridiron/go/internal/validate"
)

// PoolAdderError reports a caller contract violation on the pool-association
// operation: the input was nil or not a Game.
type PoolAdderError struct {
	Input any
}

func (e *PoolAdderError) Error() string {
	return fmt.Sprintf("Expecting Game, received %s", validate.TypeName(e.Input))
}
