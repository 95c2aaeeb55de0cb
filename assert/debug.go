//go:build !release

package assert

const isDebug = true
