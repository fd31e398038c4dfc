package option

import (
	"errors"
	"fmt"
)

// ErrWordCountMismatch is returned when a merged fragment does not have the
// word count of the phrase it is merged into. The builder is left untouched.
var ErrWordCountMismatch = errors.New("word count mismatch")

func contractViolation(format string, args ...any) {
	panic("contract violation: " + fmt.Sprintf(format, args...))
}
