package helper

import (
	"fmt"
	"runtime"
	"strings"
)

// NewError wraps err with the failed step and the name of the calling function.
// The wrapped error stays reachable through errors.Is and errors.As.
func NewError(step string, err error) error {
	if err == nil {
		return nil
	}

	caller := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
			caller = caller[strings.LastIndex(caller, "/")+1:]
		}
	}

	return fmt.Errorf("%s: error in %s: %w", caller, step, err)
}
