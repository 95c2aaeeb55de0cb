package assert

import "fmt"

// T panics with the formatted message if check is false. It is a no-op in release builds (built with -tags release)
func T(check bool, msg string, args ...any) {

	if !isDebug || check {
		return
	}

	panic("Assert failed: " + fmt.Sprintf(msg, args...))
}
