// =============================================================================
// Herbarium Atlas - Main Entry Point
// =============================================================================
//
// USAGE:
//   herbarium process <survey> <atlas-output>  - Convert one survey
//   herbarium batch                            - Convert every survey in input_dir
//   herbarium check <survey>...                - Validate surveys without writing
//   herbarium config show|init                 - Inspect or create configuration
//   herbarium version                          - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : survey parsing, validation and atlas output
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/herbarium-atlas/cmd"
)

func main() {
	cmd.Execute()
}
