// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/invowk/cmdhost/pkg/types"
)

type (
	greetParams struct {
		Name   string   `option:"name,n" desc:"Who to greet"`
		Loud   bool     `option:"loud"`
		Times  int      `default:"1"`
		Nick   *string  `option:"nick"`
		Skip   string   `option:"-"`
		Target string   `arg:"target"`
		Rest   []string `arg:"rest"`
	}

	commonParams struct {
		Verbose bool
	}

	embeddedParams struct {
		commonParams
		UserName string `default:"ada"`
	}

	store interface{ Get() string }

	greeter struct{}

	singleCommand struct{}

	annotated struct{}

	onlyListed struct{}

	twoPrimaries struct{}

	badParams struct{}

	duplicateA struct{}
	duplicateB struct{}
)

func (greeter) Greet(ctx context.Context, p greetParams) error { return nil }

func (greeter) Count(p *embeddedParams) int { return 0 }

func (greeter) Lookup(s store) (types.ExitCode, error) { return 0, nil }

// Format has an unsupported signature and is skipped.
func (greeter) Format(x int) string { return "" }

func (singleCommand) Run() {}

func (annotated) CommandMetadata() map[string]Metadata {
	return map[string]Metadata{
		"Serve": {Name: "serve-http", Description: "Serve over HTTP", Aliases: []string{"s"}, Primary: true},
		"Hide":  {Hidden: true},
	}
}

func (annotated) Serve() error { return nil }
func (annotated) Hide()        {}
func (annotated) Other()       {}

func (onlyListed) CommandMetadata() map[string]Metadata {
	return map[string]Metadata{"Listed": {}}
}

func (onlyListed) Listed()   {}
func (onlyListed) Unlisted() {}

func (twoPrimaries) CommandMetadata() map[string]Metadata {
	return map[string]Metadata{"A": {Primary: true}, "B": {Primary: true}}
}

func (twoPrimaries) A() {}
func (twoPrimaries) B() {}

func (badParams) CommandMetadata() map[string]Metadata {
	return map[string]Metadata{"Bad": {}}
}

func (badParams) Bad(x int) {}

func (duplicateA) Same() {}
func (duplicateB) Same() {}

func newProvider(opts ProviderOptions, commandTypes ...any) *TypeProvider {
	return NewTypeProvider(commandTypes, opts)
}

func TestTypeProviderDescribesMethods(t *testing.T) {
	t.Parallel()

	coll, err := newProvider(ProviderOptions{TreatPublicMethodsAsCommands: true}, greeter{}).Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}

	var names []string
	for _, d := range coll.All {
		names = append(names, d.Name)
	}
	if want := []string{"Count", "Greet", "Lookup"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("command names = %v, want %v", names, want)
	}
	if coll.Primary != nil {
		t.Errorf("Primary = %v, want nil for several commands", coll.Primary.Name)
	}

	greet, _ := coll.Find("Greet")
	if greet.Output != OutError {
		t.Errorf("Greet output = %v, want OutError", greet.Output)
	}
	if !greet.HasInput(InContext) || !greet.HasInput(InParams) {
		t.Errorf("Greet inputs = %+v", greet.Inputs)
	}

	name, ok := greet.FindOption("n")
	if !ok || name.Name != "name" || !name.Required || name.Description != "Who to greet" {
		t.Errorf("name option = %+v", name)
	}
	loud, _ := greet.FindOption("loud")
	if loud.Required || !loud.IsFlag() {
		t.Errorf("loud option = %+v, want optional flag", loud)
	}
	times, _ := greet.FindOption("times")
	if times.Required || times.Default != "1" {
		t.Errorf("times option = %+v, want default 1", times)
	}
	nick, _ := greet.FindOption("nick")
	if nick.Required {
		t.Error("pointer option must be optional")
	}
	if _, ok := greet.FindOption("skip"); ok {
		t.Error("option:\"-\" field must be skipped")
	}

	if len(greet.Arguments) != 2 || greet.Arguments[0].Name != "target" || !greet.Arguments[1].IsMulti() {
		t.Errorf("arguments = %+v", greet.Arguments)
	}

	count, _ := coll.Find("Count")
	if count.Output != OutCode || !count.ParamsPointer {
		t.Errorf("Count = %+v", count)
	}
	verbose, ok := count.FindOption("verbose")
	if !ok || !reflect.DeepEqual(verbose.FieldIndex, []int{0, 0}) {
		t.Errorf("embedded option = %+v", verbose)
	}
	if _, ok := count.FindOption("userName"); !ok {
		t.Error("UserName should be named userName")
	}

	lookup, _ := coll.Find("Lookup")
	if lookup.Output != OutCodeError || !lookup.HasInput(InService) {
		t.Errorf("Lookup = %+v", lookup)
	}
}

func TestTypeProviderConvertsNames(t *testing.T) {
	t.Parallel()

	coll, err := newProvider(ProviderOptions{
		TreatPublicMethodsAsCommands:   true,
		ConvertOptionNamesToLowerCase:  true,
		ConvertCommandNamesToLowerCase: true,
	}, &greeter{}).Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}

	count, ok := coll.Find("count")
	if !ok {
		t.Fatal("command count not found")
	}
	if _, ok := count.FindOption("user-name"); !ok {
		t.Error("UserName should be named user-name")
	}
}

func TestTypeProviderSingleCommandIsPrimary(t *testing.T) {
	t.Parallel()

	coll, err := newProvider(ProviderOptions{TreatPublicMethodsAsCommands: true}, singleCommand{}).Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	if coll.Primary == nil || coll.Primary.Name != "Run" {
		t.Fatalf("Primary = %+v, want Run", coll.Primary)
	}
}

func TestTypeProviderAppliesMetadata(t *testing.T) {
	t.Parallel()

	coll, err := newProvider(ProviderOptions{TreatPublicMethodsAsCommands: true}, annotated{}).Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}

	serve, ok := coll.Find("s")
	if !ok || serve.Name != "serve-http" || serve.Description != "Serve over HTTP" {
		t.Fatalf("serve = %+v", serve)
	}
	if coll.Primary != serve {
		t.Error("metadata Primary not applied")
	}
	if len(coll.Visible()) != 2 {
		t.Errorf("Visible() = %d commands, want 2", len(coll.Visible()))
	}
	if _, ok := coll.Find("CommandMetadata"); ok {
		t.Error("CommandMetadata must not be a command")
	}
}

func TestTypeProviderOnlyListedMethods(t *testing.T) {
	t.Parallel()

	coll, err := newProvider(ProviderOptions{}, onlyListed{}).Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	if len(coll.All) != 1 || coll.All[0].Name != "Listed" {
		t.Fatalf("commands = %+v, want only Listed", coll.All)
	}
}

func TestTypeProviderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		types    []any
		sentinel error
	}{
		{"not a struct", []any{42}, ErrInvalidCommandType},
		{"nil", []any{nil}, ErrInvalidCommandType},
		{"two primaries", []any{twoPrimaries{}}, ErrInvalidCommandMethod},
		{"listed method with bad signature", []any{badParams{}}, ErrInvalidCommandMethod},
		{"duplicate names", []any{duplicateA{}, duplicateB{}}, ErrDuplicateCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newProvider(ProviderOptions{TreatPublicMethodsAsCommands: true}, tt.types...).Commands()
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Commands() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestTypeProviderCachesCollection(t *testing.T) {
	t.Parallel()

	p := newProvider(ProviderOptions{TreatPublicMethodsAsCommands: true}, singleCommand{})
	a, _ := p.Commands()
	b, _ := p.Commands()
	if a != b {
		t.Error("Commands() should return the cached collection")
	}
}
