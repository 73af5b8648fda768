// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/fbts/job-offer/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatXLSX:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatXLSX, format)
}

// ValidateStructureMode checks if a structure application mode is supported.
// An empty mode is accepted and means none.
func ValidateStructureMode(mode string) error {
	switch strings.TrimSpace(mode) {
	case "", constants.StructureModeNone, constants.StructureModeOverwrite, constants.StructureModeAppend:
		return nil
	}
	return fmt.Errorf("expected structure mode of %s, %s or %s, got %s",
		constants.StructureModeNone, constants.StructureModeOverwrite, constants.StructureModeAppend, mode)
}
