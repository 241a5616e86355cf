package reconcile

import (
	"fmt"

	"github.com/mcdev12/gridiron/go/internal/validate"
)

// GameUpdaterError reports a caller contract violation on the result-update
// operation: a bad input type, an unknown attribute, or an attempt to touch
// schedule fields on a locked game.
type GameUpdaterError struct {
	Input   any
	Message string
}

func (e *GameUpdaterError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Expecting Game, received %s", validate.TypeName(e.Input))
}
