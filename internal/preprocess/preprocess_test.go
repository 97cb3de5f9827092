package preprocess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/hbs2jsx/internal/jsast"
)

func TestPreProcessIdentityOnCleanInput(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"",
		"<div>hello</div>",
		`<div class="{{a}} b" id={{id}}>{{#if x}}<p>{{y}}</p>{{/if}}</div>`,
		`<img src='{{src}}' alt="plain text" />`,
	}

	for _, input := range inputs {
		prepared, err := PreProcessUnsupportedParserFeatures(input)
		require.NoError(t, err)
		assert.Equal(t, input, prepared.Template)
		assert.Empty(t, prepared.Helpers)
	}
}

func TestPreProcess(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		template string
		helpers  []string
	}{
		{
			name:     "unless",
			input:    `<div visible="{{#unless hidden}}Shown{{/unless}}">x</div>`,
			template: `<div visible="{{visibleUnlessHelper hidden}}">x</div>`,
			helpers:  []string{`const visibleUnlessHelper = (hidden) => !hidden ? "Shown" : "";`},
		},
		{
			name:     "trailing literal",
			input:    `<span label="{{#if flag}}Yes{{/if}} please"></span>`,
			template: `<span label="{{labelIfHelper flag}}"></span>`,
			helpers:  []string{`const labelIfHelper = (flag) => flag ? "Yes please" : " please";`},
		},
		{
			name:     "dynamic child",
			input:    `<p title="{{#if show}}{{name}}{{/if}}">hi</p>`,
			template: `<p title="{{titleIfHelper show name}}">hi</p>`,
			helpers:  []string{`const titleIfHelper = (show, name) => show ? name : "";`},
		},
		{
			name: "distinct attributes keep distinct helpers",
			input: `<div foo="{{#if a}}A{{/if}}">
  <span bar='{{#if b}}B{{/if}}' class="{{c}}">{{d}}</span>
</div>`,
			template: `<div foo="{{fooIfHelper a}}">
  <span bar="{{barIfHelper b}}" class="{{c}}">{{d}}</span>
</div>`,
			helpers: []string{
				`const fooIfHelper = (a) => a ? "A" : "";`,
				`const barIfHelper = (b) => b ? "B" : "";`,
			},
		},
		{
			name:     "same attribute twice",
			input:    `<a class="{{#if x}}on{{/if}}"></a><a class="{{#if y}}off{{/if}}"></a>`,
			template: `<a class="{{classIfHelper x}}"></a><a class="{{classIfHelper2 y}}"></a>`,
			helpers: []string{
				`const classIfHelper = (x) => x ? "on" : "";`,
				`const classIfHelper2 = (y) => y ? "off" : "";`,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prepared, err := PreProcessUnsupportedParserFeatures(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.template, prepared.Template)

			printed := make([]string, len(prepared.Helpers))
			for i, h := range prepared.Helpers {
				printed[i] = jsast.Print(h)
			}
			assert.Equal(t, tt.helpers, printed)
		})
	}
}

func TestPreProcessRejectsNestedBlocks(t *testing.T) {
	t.Parallel()
	input := `<p>ok</p><a href="{{#if a}}{{#if b}}x{{/if}}{{/if}}">link</a>`

	prepared, err := PreProcessUnsupportedParserFeatures(input)
	require.Error(t, err)
	assert.Equal(t, PreparedTemplate{}, prepared)

	var unsupportedErr *UnsupportedConstructError
	require.True(t, errors.As(err, &unsupportedErr))
	assert.Equal(t, "href", unsupportedErr.Attribute)
	assert.Equal(t, 12, unsupportedErr.Offset)
}

func TestPreProcessFailsFast(t *testing.T) {
	t.Parallel()
	input := `<a class="{{#each xs}}x{{/each}}"></a><b class="{{#if y}}y{{/if}}"></b>`

	_, err := PreProcessUnsupportedParserFeatures(input)
	var unsupportedErr *UnsupportedConstructError
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, "{{#each xs}}x{{/each}}", unsupportedErr.Value)
}
