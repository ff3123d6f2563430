// SPDX-License-Identifier: MPL-2.0

package platform

// runtime.GOOS names this tool branches on, mostly when resolving the
// per-OS configuration directory. Named constants keep the string
// literals in one place.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
