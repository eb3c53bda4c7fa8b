// SPDX-License-Identifier: MPL-2.0

// Package command builds command descriptors from declared Go types and
// matches the command-name token of a command line against them.
//
// A command type is a struct. Its exported methods become commands; each
// method may take a context.Context, host-supplied ambient values, service
// interfaces resolved from the registry, and at most one parameter struct
// whose fields declare the command's options and positional arguments:
//
//	type GreetParams struct {
//		Name  string `option:"name,n" desc:"Who to greet" validate:"min=1"`
//		Loud  bool   `option:"loud"`
//		Extra []string `arg:"extra"`
//	}
//
//	func (Greeter) Greet(ctx context.Context, p GreetParams) error
package command
