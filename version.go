// Package qmin is a two-level logic minimizer: Quine-McCluskey prime
// implicants, Petrick's method and cost-based cover selection, with Verilog
// and report output. The code lives under internal/ and cmd/qmin.
package qmin

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"
)

//go:embed VERSION
var versionRaw string

func Version() string {
	return strings.TrimSpace(versionRaw)
}

// VersionString is the one-line banner printed by `qmin version`.
func VersionString() string {
	return fmt.Sprintf("qmin %s (%s %s/%s)", Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
