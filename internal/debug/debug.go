//go:build !release

// Package debug provides assertions that are compiled out of release builds.
package debug

import _ "unsafe"

//go:linkname throw runtime.throw
func throw(string)

// Assert crashes the process if fn returns false. The check is not run
// when built with the release tag.
func Assert(info string, fn func() bool) {
	if !fn() {
		throw("assertion failed: " + info)
	}
}
