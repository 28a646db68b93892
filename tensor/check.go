package tensor

import "fmt"

// checkPosition panics when p is outside [0, limit]. Callers guard it with
// the debug constant so that regular builds compile it away.
func checkPosition(what string, p, limit int) {
	if p < 0 || p > limit {
		panic(fmt.Sprintf("tensor: %s position %d out of range [0, %d]", what, p, limit))
	}
}
