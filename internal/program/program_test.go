package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/hbs2jsx/internal/hbs"
	"github.com/gnolang/hbs2jsx/internal/jsast"
)

func build(t *testing.T, text string, helpers []*jsast.VariableDeclaration, opts Options) string {
	t.Helper()

	tpl, err := hbs.Parse(text)
	require.NoError(t, err)
	prog, err := Build(tpl, helpers, opts)
	require.NoError(t, err)
	return jsast.Print(prog)
}

func TestBuildTemplates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "static element",
			input:    `<div class="box">hi</div>`,
			expected: `<div className="box">hi</div>;`,
		},
		{
			name:     "fragment root with renamed attribute",
			input:    `<label for="x">a</label><br>`,
			expected: `<><label htmlFor="x">a</label><br /></>;`,
		},
		{
			name:     "style object",
			input:    `<div style="color: red; background-color: blue;"></div>`,
			expected: `<div style={{ color: "red", backgroundColor: "blue" }} />;`,
		},
		{
			name:     "multiline whitespace dropped",
			input:    "<ul>\n  <li>x</li>\n</ul>",
			expected: `<ul><li>x</li></ul>;`,
		},
		{
			name:     "text with braces",
			input:    `<p>a {b}</p>`,
			expected: `<p>{"a {b}"}</p>;`,
		},
		{
			name:     "mustache",
			input:    `<p>Hello {{user.name}}</p>`,
			expected: `<p>Hello {props.user.name}</p>;`,
		},
		{
			name:     "if else",
			input:    `<div>{{#if ok}}<b>yes</b>{{else}}no{{/if}}</div>`,
			expected: `<div>{props.ok ? <b>yes</b> : "no"}</div>;`,
		},
		{
			name:     "unless without inverse",
			input:    `{{#unless hidden}}<i>x</i>{{/unless}}`,
			expected: `<>{!props.hidden ? <i>x</i> : null}</>;`,
		},
		{
			name:     "each shifts context",
			input:    `<ul>{{#each items}}<li>{{name}} {{@index}}</li>{{/each}}</ul>`,
			expected: `<ul>{props.items.map((item, index) => <li>{item.name} {index}</li>)}</ul>;`,
		},
		{
			name:     "each with block params and parent lookup",
			input:    `{{#each users as |u|}}<a href="/u/{{u.id}}">{{../title}}</a>{{/each}}`,
			expected: `<>{props.users.map((u, index) => <a href={"/u/" + u.id}>{props.title}</a>)}</>;`,
		},
		{
			name:     "nested each",
			input:    `{{#each rows}}{{#each cells}}{{this}}{{/each}}{{/each}}`,
			expected: `<>{props.rows.map((item, index) => item.cells.map((item2, index2) => item2))}</>;`,
		},
		{
			name:     "each with inverse",
			input:    `{{#each xs}}<i>{{this}}</i>{{else}}none{{/each}}`,
			expected: `<>{props.xs.length ? props.xs.map((item, index) => <i>{item}</i>) : "none"}</>;`,
		},
		{
			name:     "with",
			input:    `{{#with user}}<span>{{name}}</span>{{/with}}`,
			expected: `<>{props.user ? <span>{props.user.name}</span> : null}</>;`,
		},
		{
			name:     "helper call with hash",
			input:    `<p>{{format date style="short"}}</p>`,
			expected: `<p>{format(props.date, { style: "short" })}</p>;`,
		},
		{
			name:     "sub-expression",
			input:    `<p>{{upper (join a ", ")}}</p>`,
			expected: `<p>{upper(join(props.a, ", "))}</p>;`,
		},
		{
			name:     "root data variable",
			input:    `{{#each xs}}<i>{{@root.label}}</i>{{/each}}`,
			expected: `<>{props.xs.map((item, index) => <i>{props.label}</i>)}</>;`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, build(t, tt.input, nil, Options{}))
		})
	}
}

func TestBuildWrapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     Options
		expected string
	}{
		{
			name:     "component without context",
			input:    `<br>`,
			opts:     Options{IsComponent: true},
			expected: `() => <br />;`,
		},
		{
			name:     "component with forced context",
			input:    `<br>`,
			opts:     Options{IsComponent: true, IncludeContext: true},
			expected: `(props) => <br />;`,
		},
		{
			name:     "component reading context",
			input:    `<p>{{name}}</p>`,
			opts:     Options{IsComponent: true},
			expected: `(props) => <p>{props.name}</p>;`,
		},
		{
			name:     "module",
			input:    `<br>`,
			opts:     Options{IsModule: true},
			expected: `export default <br />;`,
		},
		{
			name:     "import needs module",
			input:    `<br>`,
			opts:     Options{IncludeImport: true},
			expected: `<br />;`,
		},
		{
			name:     "module component with import",
			input:    `<br>`,
			opts:     Options{IsComponent: true, IsModule: true, IncludeImport: true},
			expected: "import React from \"react\";\nexport default () => <br />;",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, build(t, tt.input, nil, tt.opts))
		})
	}
}

func TestBuildHoistsHelpers(t *testing.T) {
	t.Parallel()

	show := jsast.Ident("show")
	helpers := []*jsast.VariableDeclaration{
		jsast.Const("classIfHelper", jsast.Arrow([]*jsast.Identifier{show}, jsast.Cond(show, jsast.Str("on"), jsast.Str("")))),
		jsast.Const("now", jsast.Arrow(nil, jsast.Str("today"))),
	}

	got := build(t, `<div class="{{classIfHelper show}}">{{now}}</div>`, helpers, Options{
		IsComponent:   true,
		IsModule:      true,
		IncludeImport: true,
	})
	expected := `import React from "react";
const classIfHelper = (show) => show ? "on" : "";
const now = () => "today";
export default (props) => <div className={classIfHelper(props.show)}>{now()}</div>;`
	assert.Equal(t, expected, got)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"custom block helper", `{{#custom x}}y{{/custom}}`, "unsupported block helper {{#custom}}"},
		{"data outside each", `<p>{{@index}}</p>`, "@index is not available here"},
		{"if without argument", `{{#if}}x{{/if}}`, "{{#if}} takes exactly one argument"},
		{"literal helper", `{{"x" y}}`, "a literal cannot be called as a helper"},
		{"dotted helper", `{{a.b c}}`, `helper name "a.b" must be a simple identifier`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := hbs.Parse(tt.input)
			require.NoError(t, err)

			_, err = Build(tpl, nil, Options{})
			var berr *BuildError
			require.ErrorAs(t, err, &berr)
			assert.Contains(t, berr.Message, tt.message)
		})
	}
}

func TestStyleKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "backgroundColor", styleKey("background-color"))
	assert.Equal(t, "WebkitTransition", styleKey("-webkit-transition"))
	assert.Equal(t, "msTransform", styleKey("-ms-transform"))
	assert.Equal(t, "--main-color", styleKey("--main-color"))
}
