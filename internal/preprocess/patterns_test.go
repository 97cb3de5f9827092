package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasBlockPair(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected bool
	}{
		{`class="{{#if a}}b{{/if}}"`, true},
		{`{{#unless a}}{{b}}{{/unless}}`, true},
		{`class="{{a}} {{b}}"`, false},
		{`class="plain"`, false},
		{`{{/if}}`, false},
	}

	for _, tt := range tests {
		got, err := hasBlockPair(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestBareMustacheReference(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		name     string
		expected bool
	}{
		{"{{name}}", "name", true},
		{"{{ name }}", "name", true},
		{"{{$index}}", "$index", true},
		{"Hi {{name}}", "", false},
		{"{{name}} there", "", false},
		{"{{user.name}}", "user.name", true},
		{"{{ this.title }}", "this.title", true},
		{"{{user.}}", "", false},
		{"{{1st}}", "", false},
		{"{{this}}", "", false},
		{"plain", "", false},
	}

	for _, tt := range tests {
		name, ok, err := bareMustacheReference(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, ok, tt.input)
		assert.Equal(t, tt.name, name, tt.input)
	}
}

func TestDecomposeConditional(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected conditional
		ok       bool
	}{
		{
			name:     "if with trailing literal",
			input:    "{{#if flag}}Yes{{/if}} please",
			expected: conditional{Kind: "if", Argument: "flag", Child: "Yes", CloseKind: "if", Trailing: " please"},
			ok:       true,
		},
		{
			name:     "unless",
			input:    "{{#unless hidden}}Shown{{/unless}}",
			expected: conditional{Kind: "unless", Argument: "hidden", Child: "Shown", CloseKind: "unless"},
			ok:       true,
		},
		{
			name:     "leading literal",
			input:    "btn {{#if active}}btn-active{{/if}}",
			expected: conditional{Leading: "btn ", Kind: "if", Argument: "active", Child: "btn-active", CloseKind: "if"},
			ok:       true,
		},
		{
			name:     "dependent child",
			input:    "{{#if show}}{{name}}{{/if}}",
			expected: conditional{Kind: "if", Argument: "show", Child: "{{name}}", CloseKind: "if"},
			ok:       true,
		},
		{
			name:     "nested block is captured as child",
			input:    "{{#if a}}{{#if b}}x{{/if}}{{/if}}",
			expected: conditional{Kind: "if", Argument: "a", Child: "{{#if b}}x{{/if}}", CloseKind: "if"},
			ok:       true,
		},
		{
			name:  "custom block helper",
			input: "{{#each items}}x{{/each}}",
		},
		{
			name:  "mustache in trailing literal",
			input: "{{#if a}}x{{/if}} {{b}}",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := decomposeConditional(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsPath(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"a", "user.active", "this.open", "$x", "_private"} {
		ok, err := isPath(s)
		require.NoError(t, err)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"(eq a b)", "a b", "", "1a", "a..b", "@index"} {
		ok, err := isPath(s)
		require.NoError(t, err)
		assert.False(t, ok, s)
	}
}

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "classIfHelper", helperBaseName("class", "if"))
	assert.Equal(t, "classIfHelper", helperBaseName("CLASS", "if"))
	assert.Equal(t, "dataIdUnlessHelper", helperBaseName("data-id", "unless"))
	assert.Equal(t, "xlinkHrefIfHelper", helperBaseName("xlink:href", "if"))

	assert.Equal(t, "flag", parameterName("Flag"))
	assert.Equal(t, "userIsActive", parameterName("user.isActive"))
	assert.Equal(t, "open", parameterName("this.open"))
	assert.Equal(t, "_class", parameterName("class"))
}
