// SPDX-License-Identifier: MPL-2.0

// Command greet is a small application built on cmdhost.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/invowk/cmdhost/pkg/cmdhost"
	"github.com/invowk/cmdhost/pkg/types"
)

// optionsFileEnv names an options file (.cue or .toml) to load.
const optionsFileEnv = "GREET_OPTIONS_FILE"

// Version is the semantic version (set via -ldflags).
var Version = "dev"

type (
	// Commands are the greet commands.
	Commands struct{}

	// GreetParams are the options of Greet.
	GreetParams struct {
		Name  string `option:"name,n" desc:"who to greet" validate:"min=1"`
		Loud  bool   `option:"loud,l" desc:"shout the greeting"`
		Times int    `option:"times" default:"1" desc:"how many times to greet" validate:"min=1,max=10"`
	}

	// FarewellParams are the arguments of Farewell.
	FarewellParams struct {
		Names []string `arg:"names" desc:"who is leaving"`
	}

	// WaitParams are the options of Wait.
	WaitParams struct {
		For time.Duration `option:"for" default:"1m" desc:"how long to wait"`
	}
)

// CommandMetadata describes the commands.
func (Commands) CommandMetadata() map[string]cmdhost.Metadata {
	return map[string]cmdhost.Metadata{
		"Greet":    {Description: "Print a greeting", Aliases: []string{"hello"}},
		"Farewell": {Description: "Say goodbye to everyone named", Aliases: []string{"bye"}},
		"Wait":     {Description: "Wait until the time is up or the process is interrupted"},
	}
}

// Greet prints a greeting.
func (Commands) Greet(c *cmdhost.Context, p GreetParams) {
	msg := fmt.Sprintf("Hello, %s", p.Name)
	if p.Loud {
		msg = strings.ToUpper(msg) + "!"
	}
	for range p.Times {
		fmt.Fprintln(c.Console.Out, msg)
	}
	c.Logger.Debug("greeted", "name", p.Name, "times", p.Times)
}

// Farewell says goodbye to each name.
func (Commands) Farewell(c *cmdhost.Context, p FarewellParams) error {
	if len(p.Names) == 0 {
		return cmdhost.Exitf(2, "nobody to say goodbye to")
	}
	for _, name := range p.Names {
		fmt.Fprintf(c.Console.Out, "Goodbye, %s\n", name)
	}
	return nil
}

// Wait blocks until the duration elapses or the run is cancelled.
func (Commands) Wait(ctx context.Context, p WaitParams) (types.ExitCode, error) {
	select {
	case <-time.After(p.For):
		return types.ExitCodeSuccess, nil
	case <-ctx.Done():
		return types.ExitCodeCancelled, ctx.Err()
	}
}

func main() {
	b := cmdhost.NewBuilder(Commands{}).
		LoadOptions(cmdhost.LoadOptions{
			ConfigFilePath: types.FilesystemPath(os.Getenv(optionsFileEnv)),
			EnvPrefix:      "GREET",
		}).
		Configure(func(o *cmdhost.Options) {
			o.ApplicationName = "greet"
			if o.Version == "" {
				o.Version = Version
			}
			if o.Description == "" {
				o.Description = "Greets people from the command line."
			}
		})

	h, err := b.Build(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(int(types.ExitCodeFailure))
	}
	os.Exit(int(h.Run(os.Args[1:])))
}
