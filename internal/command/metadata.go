// SPDX-License-Identifier: MPL-2.0

package command

type (
	// Metadata annotates one command method.
	Metadata struct {
		// Name overrides the command name derived from the method name.
		Name        string
		Description string
		Aliases     []string
		Hidden      bool
		// Primary marks the command run when no command name is given.
		Primary bool
		// IgnoreUnknownOptions lets undeclared options through to the command.
		IgnoreUnknownOptions bool
	}

	// MetadataProvider is implemented by command types that annotate their
	// methods. Keys are Go method names. When public methods are not treated
	// as commands, only the methods listed here are commands.
	MetadataProvider interface {
		CommandMetadata() map[string]Metadata
	}
)

// reservedMethods are exported methods of command types that are never commands.
var reservedMethods = map[string]bool{
	"CommandMetadata": true,
	"CommandFilters":  true,
}
