//go:build release

package rtasm

const debugAssertions = false

func assert(cond bool, format string, args ...interface{}) {}
