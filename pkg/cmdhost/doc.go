// SPDX-License-Identifier: MPL-2.0

// Package cmdhost runs command-line applications declared as Go types.
//
// Each exported method of a command type is a command; its parameter struct
// declares the options and arguments. A Host matches the command named on
// the command line, passes the invocation through a fixed chain of steps
// (built-in help, version and completion, the fault boundary, bind-error
// reporting, unknown-option rejection, command filters and the app context)
// and calls the method:
//
//	type Commands struct{}
//
//	type GreetParams struct {
//		Name string `option:"name,n" desc:"who to greet"`
//	}
//
//	func (Commands) Greet(c *cmdhost.Context, p GreetParams) {
//		fmt.Fprintf(c.Console.Out, "Hello, %s\n", p.Name)
//	}
//
//	func main() {
//		cmdhost.Run(os.Args[1:], Commands{})
//	}
//
// Long-lived services are registered once on the HostBuilder and injected
// into command types through fields tagged `inject:""` or method parameters
// of interface type.
package cmdhost
