package hbs2jsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/hbs2jsx/internal/jsast"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	got, err := Compile(`<div visible="{{#unless hidden}}Shown{{/unless}}">x</div>`)
	require.NoError(t, err)

	expected := `const visibleUnlessHelper = (hidden) => !hidden ? "Shown" : "";
(props) => <div visible={visibleUnlessHelper(props.hidden)}>x</div>;`
	assert.Equal(t, expected, got)
}

func TestCompileWithOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     Options
		expected string
	}{
		{
			name:     "plain expression",
			input:    `<p>hi</p>`,
			expected: `<p>hi</p>;`,
		},
		{
			name:     "component",
			input:    `<p>{{greeting}}</p>`,
			opts:     Options{IsComponent: true},
			expected: `(props) => <p>{props.greeting}</p>;`,
		},
		{
			name:     "always include context",
			input:    `<p>hi</p>`,
			opts:     Options{IsComponent: true, AlwaysIncludeContext: true},
			expected: `(props) => <p>hi</p>;`,
		},
		{
			name:     "import is ignored outside modules",
			input:    `<p>hi</p>`,
			opts:     Options{IsComponent: true, IncludeImport: true},
			expected: `() => <p>hi</p>;`,
		},
		{
			name:     "module with import",
			input:    `<p>hi</p>`,
			opts:     Options{IsComponent: true, IsModule: true, IncludeImport: true},
			expected: "import React from \"react\";\nexport default () => <p>hi</p>;",
		},
		{
			name:  "helpers come after the import",
			input: `<a class="btn {{#if active}}on{{/if}}" href="{{url}}">go</a>`,
			opts:  Options{IsComponent: true, IsModule: true, IncludeImport: true},
			expected: `import React from "react";
const classIfHelper = (active) => active ? "btn on" : "btn ";
export default (props) => <a className={classIfHelper(props.active)} href={props.url}>go</a>;`,
		},
		{
			name:  "dependent child threads the value",
			input: `<p title="{{#if show}}{{name}}{{/if}}">{{#each tags}}<i>{{this}}</i>{{/each}}</p>`,
			opts:  Options{IsComponent: true},
			expected: `const titleIfHelper = (show, name) => show ? name : "";
(props) => <p title={titleIfHelper(props.show, props.name)}>{props.tags.map((item, index) => <i>{item}</i>)}</p>;`,
		},
		{
			name:  "child differing from condition by case is read",
			input: `<p title="{{#if User}}{{user}}{{/if}}">x</p>`,
			opts:  Options{IsComponent: true, IsModule: true},
			expected: `const titleIfHelper = (user, user2) => user ? user2 : "";
export default (props) => <p title={titleIfHelper(props.User, props.user)}>x</p>;`,
		},
		{
			name:  "dotted child",
			input: `<p title="{{#if show}}{{user.name}}{{/if}}">x</p>`,
			opts:  Options{IsComponent: true},
			expected: `const titleIfHelper = (show, userName) => show ? userName : "";
(props) => <p title={titleIfHelper(props.show, props.user.name)}>x</p>;`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := CompileWithOptions(tt.input, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompileComponentShorthand(t *testing.T) {
	t.Parallel()

	asComponent, err := CompileComponent(`<br>`, true)
	require.NoError(t, err)
	assert.Equal(t, `() => <br />;`, asComponent)

	asElement, err := CompileComponent(`<br>`, false)
	require.NoError(t, err)
	assert.Equal(t, `<br />;`, asElement)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	t.Run("nested block in attribute", func(t *testing.T) {
		t.Parallel()

		_, err := Compile(`<a href="{{#if a}}{{#if b}}x{{/if}}{{/if}}">x</a>`)
		var unsupported *UnsupportedConstructError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "href", unsupported.Attribute)
		assert.Contains(t, err.Error(), "preprocess: unsupported block statement found in attribute 'href'")
	})

	t.Run("malformed markup", func(t *testing.T) {
		t.Parallel()

		_, err := Compile(`<div>{{#if a}}</div>`)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, err.Error(), "parse: ")
	})

	t.Run("unknown block helper", func(t *testing.T) {
		t.Parallel()

		_, err := Compile(`{{#repeat 3}}x{{/repeat}}`)
		var berr *BuildError
		require.ErrorAs(t, err, &berr)
		assert.Contains(t, err.Error(), "build: ")
	})
}

func TestBuildHelperSemantics(t *testing.T) {
	t.Parallel()

	prog, err := Build(`<span label="{{#if flag}}Yes{{/if}} please"></span>`, Options{IsComponent: true})
	require.NoError(t, err)

	decl, ok := prog.Body[0].(*jsast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "labelIfHelper", decl.Name())

	yes, err := jsast.CallHelper(decl, true)
	require.NoError(t, err)
	assert.Equal(t, "Yes please", yes)

	no, err := jsast.CallHelper(decl, false)
	require.NoError(t, err)
	assert.Equal(t, " please", no)
}
