package engine

import (
	"errors"
	"fmt"
)

// ErrNoDocument is returned when Parse is called without a usable document
// handle (§7: "Missing document handle" is fatal, not a tolerated anomaly).
var ErrNoDocument = errors.New("engine: no document to parse")

// MaxElemsExceededError reports that the document's element count exceeded
// Options.MaxElemsToParse before any extraction work began (§7).
type MaxElemsExceededError struct {
	Count int
	Max   int
}

func (e *MaxElemsExceededError) Error() string {
	return fmt.Sprintf("Aborting parsing document; %d elements found", e.Count)
}
