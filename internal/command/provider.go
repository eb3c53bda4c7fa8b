// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/invowk/cmdhost/pkg/types"
)

var (
	contextType  = reflect.TypeFor[context.Context]()
	errorType    = reflect.TypeFor[error]()
	intType      = reflect.TypeFor[int]()
	exitCodeType = reflect.TypeFor[types.ExitCode]()
)

type (
	// Provider enumerates the commands of an application.
	Provider interface {
		Commands() (*Collection, error)
	}

	// ProviderOptions controls how command types are turned into descriptors.
	ProviderOptions struct {
		TreatPublicMethodsAsCommands   bool
		ConvertOptionNamesToLowerCase  bool
		ConvertCommandNamesToLowerCase bool
		// AmbientTypes are parameter types the host supplies per run.
		AmbientTypes []reflect.Type
	}

	// TypeProvider builds descriptors from declared command types by reflection.
	// The collection is computed once and reused.
	TypeProvider struct {
		commandTypes []any
		opts         ProviderOptions

		once       sync.Once
		collection *Collection
		err        error
	}
)

// NewTypeProvider creates a provider over the given command values or pointers.
func NewTypeProvider(commandTypes []any, opts ProviderOptions) *TypeProvider {
	return &TypeProvider{
		commandTypes: slices.Clone(commandTypes),
		opts:         opts,
	}
}

// Commands returns the command collection.
func (p *TypeProvider) Commands() (*Collection, error) {
	p.once.Do(func() {
		p.collection, p.err = p.build()
	})
	return p.collection, p.err
}

func (p *TypeProvider) build() (*Collection, error) {
	coll := &Collection{}
	seen := make(map[string]bool)

	for _, v := range p.commandTypes {
		t := reflect.TypeOf(v)
		if t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct {
			return nil, &InvalidCommandTypeError{Type: reflect.TypeOf(v)}
		}

		descs, err := p.commandsOf(t)
		if err != nil {
			return nil, err
		}
		for _, d := range descs {
			for _, name := range append([]string{d.Name}, d.Aliases...) {
				if seen[name] {
					return nil, &DuplicateCommandError{Name: name}
				}
				seen[name] = true
			}
			coll.All = append(coll.All, d)
		}
	}

	var primaries []*Descriptor
	for _, d := range coll.All {
		if d.Primary {
			primaries = append(primaries, d)
		}
	}
	switch {
	case len(primaries) > 1:
		return nil, &InvalidCommandMethodError{
			Type:   primaries[1].Type,
			Method: primaries[1].MethodName,
			Reason: fmt.Sprintf("only one primary command is allowed (also %s)", primaries[0].Name),
		}
	case len(primaries) == 1:
		coll.Primary = primaries[0]
	case len(coll.All) == 1:
		coll.All[0].Primary = true
		coll.Primary = coll.All[0]
	}

	return coll, nil
}

func (p *TypeProvider) commandsOf(t reflect.Type) ([]*Descriptor, error) {
	var meta map[string]Metadata
	if mp, ok := reflect.New(t).Interface().(MetadataProvider); ok {
		meta = mp.CommandMetadata()
	}

	pt := reflect.PointerTo(t)
	for name := range meta {
		if _, ok := pt.MethodByName(name); !ok || reservedMethods[name] {
			return nil, &InvalidCommandMethodError{Type: t, Method: name, Reason: "metadata names a method that is not an exported command method"}
		}
	}

	var out []*Descriptor
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if reservedMethods[m.Name] {
			continue
		}
		md, explicit := meta[m.Name]
		if !explicit && !p.opts.TreatPublicMethodsAsCommands {
			continue
		}

		d, err := p.describe(t, m, md)
		if err != nil {
			if explicit {
				return nil, err
			}
			// Implicit helper methods with other signatures are not commands.
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (p *TypeProvider) describe(t reflect.Type, m reflect.Method, md Metadata) (*Descriptor, error) {
	fail := func(format string, args ...any) error {
		return &InvalidCommandMethodError{Type: t, Method: m.Name, Reason: fmt.Sprintf(format, args...)}
	}

	mt := m.Type
	if mt.IsVariadic() {
		return nil, fail("variadic methods are not supported")
	}

	d := &Descriptor{
		Name:                 p.commandName(m.Name, md.Name),
		Aliases:              slices.Clone(md.Aliases),
		Description:          types.DescriptionText(md.Description),
		Kind:                 KindUser,
		Primary:              md.Primary,
		Hidden:               md.Hidden,
		IgnoreUnknownOptions: md.IgnoreUnknownOptions,
		Type:                 t,
		MethodName:           m.Name,
	}
	if err := d.Description.Validate(); err != nil {
		return nil, fail("%v", err)
	}

	// In(0) is the receiver.
	for i := 1; i < mt.NumIn(); i++ {
		in := mt.In(i)
		switch {
		case in == contextType:
			if d.HasInput(InContext) {
				return nil, fail("more than one context.Context parameter")
			}
			d.Inputs = append(d.Inputs, Input{Kind: InContext, Type: in})
		case slices.Contains(p.opts.AmbientTypes, in):
			d.Inputs = append(d.Inputs, Input{Kind: InAmbient, Type: in})
		case in.Kind() == reflect.Interface:
			d.Inputs = append(d.Inputs, Input{Kind: InService, Type: in})
		case in.Kind() == reflect.Struct || (in.Kind() == reflect.Pointer && in.Elem().Kind() == reflect.Struct):
			if d.Params != nil {
				return nil, fail("more than one parameter struct")
			}
			d.ParamsPointer = in.Kind() == reflect.Pointer
			d.Params = in
			if d.ParamsPointer {
				d.Params = in.Elem()
			}
			d.Inputs = append(d.Inputs, Input{Kind: InParams, Type: in})
			if err := p.collectParams(d, d.Params, nil); err != nil {
				return nil, fail("%v", err)
			}
		default:
			return nil, fail("unsupported parameter type %s", in)
		}
	}

	out, err := outputKind(mt)
	if err != nil {
		return nil, fail("%v", err)
	}
	d.Output = out

	return d, nil
}

func outputKind(mt reflect.Type) (OutKind, error) {
	isCode := func(t reflect.Type) bool { return t == intType || t == exitCodeType }
	switch mt.NumOut() {
	case 0:
		return OutNone, nil
	case 1:
		switch {
		case mt.Out(0) == errorType:
			return OutError, nil
		case isCode(mt.Out(0)):
			return OutCode, nil
		}
	case 2:
		if isCode(mt.Out(0)) && mt.Out(1) == errorType {
			return OutCodeError, nil
		}
	}
	return OutNone, fmt.Errorf("unsupported results; want none, error, int, ExitCode or (int|ExitCode, error)")
}

func (p *TypeProvider) collectParams(d *Descriptor, t reflect.Type, index []int) error {
	for i := range t.NumField() {
		f := t.Field(i)
		fieldIndex := append(slices.Clone(index), i)

		optTag, hasOpt := f.Tag.Lookup("option")
		argTag, hasArg := f.Tag.Lookup("arg")
		if optTag == "-" {
			continue
		}
		// Exported fields of embedded structs are promoted even when the embedded type is not.
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !hasOpt && !hasArg {
			if err := p.collectParams(d, f.Type, fieldIndex); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if hasOpt && hasArg {
			return fmt.Errorf("field %s cannot be both an option and an argument", f.Name)
		}

		def, hasDef := f.Tag.Lookup("default")
		desc := types.DescriptionText(f.Tag.Get("desc"))
		optional := hasDef || f.Type.Kind() == reflect.Pointer || f.Type.Kind() == reflect.Slice

		if hasArg {
			name := argTag
			if name == "" {
				name = p.optionName(f.Name)
			}
			if n := len(d.Arguments); n > 0 && d.Arguments[n-1].IsMulti() {
				return fmt.Errorf("argument %s follows the multi-value argument %s", name, d.Arguments[n-1].Name)
			}
			d.Arguments = append(d.Arguments, Argument{
				Name:        name,
				Description: desc,
				Type:        f.Type,
				FieldIndex:  fieldIndex,
				FieldName:   f.Name,
				Default:     def,
				HasDefault:  hasDef,
				Required:    !optional,
			})
			continue
		}

		name, short, _ := strings.Cut(optTag, ",")
		if name == "" {
			name = p.optionName(f.Name)
		}
		if len([]rune(short)) > 1 {
			return fmt.Errorf("short name %q of option %s must be a single character", short, name)
		}
		for _, existing := range []string{name, short} {
			if existing == "" {
				continue
			}
			if _, dup := d.FindOption(existing); dup {
				return fmt.Errorf("option name %q is declared more than once", existing)
			}
		}
		d.Options = append(d.Options, Option{
			Name:        name,
			Short:       short,
			Description: desc,
			Type:        f.Type,
			FieldIndex:  fieldIndex,
			FieldName:   f.Name,
			Default:     def,
			HasDefault:  hasDef,
			Required:    !optional && f.Type.Kind() != reflect.Bool,
		})
	}
	return nil
}

func (p *TypeProvider) commandName(method, override string) string {
	if override != "" {
		return override
	}
	if p.opts.ConvertCommandNamesToLowerCase {
		return ToKebabCase(method)
	}
	return method
}

func (p *TypeProvider) optionName(field string) string {
	if p.opts.ConvertOptionNamesToLowerCase {
		return ToKebabCase(field)
	}
	return lowerLeading(field)
}
