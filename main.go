// SPDX-License-Identifier: MPL-2.0

// mason is a build system configurator: it resolves build options from
// machine files, persistent defaults, and the command line, and keeps the
// result reproducible in a per-build-directory cache.
package main

import cmd "mason-cli/cmd/mason"

func main() {
	cmd.Execute()
}
