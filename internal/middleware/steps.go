// SPDX-License-Identifier: MPL-2.0

package middleware

import "github.com/invowk/cmdhost/internal/pipeline"

// Steps returns the non-terminal steps in their fixed order, outermost first.
func Steps() []pipeline.Factory {
	return []pipeline.Factory{
		BuiltInCommands,
		FaultBoundary,
		BindErrorReporting,
		UnknownOptionRejection,
		CommandFilters,
		AppContextInit,
	}
}
