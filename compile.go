// Package hbs2jsx converts Handlebars templates into React JSX.
//
// Compilation runs in four stages: block statements inside attribute values
// are rewritten into helper calls, the template is parsed, the parsed tree is
// turned into a JavaScript program and the program is printed.
package hbs2jsx

import (
	"fmt"

	"github.com/gnolang/hbs2jsx/internal/hbs"
	"github.com/gnolang/hbs2jsx/internal/jsast"
	"github.com/gnolang/hbs2jsx/internal/preprocess"
	"github.com/gnolang/hbs2jsx/internal/program"
)

type (
	// UnsupportedConstructError reports an attribute block statement that
	// cannot be rewritten into a helper.
	UnsupportedConstructError = preprocess.UnsupportedConstructError
	// ParseError reports malformed template markup.
	ParseError = hbs.ParseError
	// BuildError reports a construct without a JSX translation.
	BuildError = program.BuildError
)

// Options controls the shape of the generated code. The zero value prints a
// bare JSX expression statement.
type Options struct {
	// IsComponent wraps the JSX in a function component.
	IsComponent bool `yaml:"component" json:"component"`
	// IsModule exports the generated code as the module default.
	IsModule bool `yaml:"module" json:"module"`
	// IncludeImport adds `import React from "react"`. Only effective
	// together with IsModule.
	IncludeImport bool `yaml:"import" json:"import"`
	// AlwaysIncludeContext declares the props parameter even when the
	// template does not read from it.
	AlwaysIncludeContext bool `yaml:"context" json:"context"`
}

// Compile converts text into a JSX function component.
func Compile(text string) (string, error) {
	return CompileComponent(text, true)
}

// CompileComponent converts text into JSX, wrapped as a function component
// when isComponent is set.
func CompileComponent(text string, isComponent bool) (string, error) {
	return CompileWithOptions(text, Options{IsComponent: isComponent})
}

// CompileWithOptions converts text into JSX shaped by opts.
func CompileWithOptions(text string, opts Options) (string, error) {
	prog, err := Build(text, opts)
	if err != nil {
		return "", err
	}
	return jsast.Print(prog), nil
}

// Build runs every stage but printing and returns the program tree.
func Build(text string, opts Options) (*jsast.Program, error) {
	prepared, err := preprocess.PreProcessUnsupportedParserFeatures(text)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	tpl, err := hbs.Parse(prepared.Template)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	prog, err := program.Build(tpl, prepared.Helpers, opts.normalize())
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return prog, nil
}

func (o Options) normalize() program.Options {
	return program.Options{
		IsComponent:    o.IsComponent,
		IsModule:       o.IsModule,
		IncludeImport:  o.IncludeImport && o.IsModule,
		IncludeContext: o.AlwaysIncludeContext,
	}
}
