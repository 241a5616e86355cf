package pools

import (
	"fmt"

	"github.com/mcdev12/gridiron/go/internal/validate"
)

// GameAdderError reports a caller contract violation on the game-association
// operation: the input was nil or not a Pool.
type GameAdderError struct {
	Input any
}

func (e *GameAdderError) Error() string {
	return fmt.Sprintf("Expecting Pool, received %s", validate.TypeName(e.Input))
}
