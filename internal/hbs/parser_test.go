package hbs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ignoreOffsets = cmp.FilterPath(func(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && sf.Name() == "Offset"
}, cmp.Ignore())

func path(parts ...string) *PathExpression {
	original := ""
	for i, p := range parts {
		if i > 0 {
			original += "."
		}
		original += p
	}
	return &PathExpression{Original: original, Parts: parts}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected *Template
	}{
		{
			name:     "empty",
			input:    "",
			expected: &Template{},
		},
		{
			name:  "plain element",
			input: `<div class="box">hello</div>`,
			expected: &Template{Body: []Statement{
				&ElementNode{
					Tag:        "div",
					Attributes: []*AttrNode{{Name: "class", Value: &TextNode{Chars: "box"}}},
					Children:   []Statement{&TextNode{Chars: "hello"}},
				},
			}},
		},
		{
			name:  "void and self closing",
			input: `<p><br><input disabled/></p>`,
			expected: &Template{Body: []Statement{
				&ElementNode{
					Tag: "p",
					Children: []Statement{
						&ElementNode{Tag: "br", SelfClosing: true},
						&ElementNode{
							Tag:         "input",
							Attributes:  []*AttrNode{{Name: "disabled"}},
							SelfClosing: true,
						},
					},
				},
			}},
		},
		{
			name:  "mustache in text",
			input: `<p>Hi {{user.name}}!</p>`,
			expected: &Template{Body: []Statement{
				&ElementNode{
					Tag: "p",
					Children: []Statement{
						&TextNode{Chars: "Hi "},
						&MustacheStatement{Path: path("user", "name")},
						&TextNode{Chars: "!"},
					},
				},
			}},
		},
		{
			name:  "helper call with params and hash",
			input: `{{format date "short" upper=true}}`,
			expected: &Template{Body: []Statement{
				&MustacheStatement{
					Path:   path("format"),
					Params: []Expression{path("date"), &StringLiteral{Value: "short"}},
					Hash:   []*HashPair{{Key: "upper", Value: &BooleanLiteral{Value: true}}},
				},
			}},
		},
		{
			name:  "triple stash",
			input: `{{{body}}}`,
			expected: &Template{Body: []Statement{
				&MustacheStatement{Path: path("body"), Trusting: true},
			}},
		},
		{
			name:  "attribute concat",
			input: `<a href="/u/{{id}}">x</a>`,
			expected: &Template{Body: []Statement{
				&ElementNode{
					Tag: "a",
					Attributes: []*AttrNode{{
						Name: "href",
						Value: &ConcatStatement{Parts: []Statement{
							&TextNode{Chars: "/u/"},
							&MustacheStatement{Path: path("id")},
						}},
					}},
					Children: []Statement{&TextNode{Chars: "x"}},
				},
			}},
		},
		{
			name:  "attribute single mustache",
			input: `<img src="{{url}}">`,
			expected: &Template{Body: []Statement{
				&ElementNode{
					Tag:         "img",
					Attributes:  []*AttrNode{{Name: "src", Value: &MustacheStatement{Path: path("url")}}},
					SelfClosing: true,
				},
			}},
		},
		{
			name:  "if else spanning elements",
			input: `{{#if ok}}<b>yes</b>{{else}}no{{/if}}`,
			expected: &Template{Body: []Statement{
				&BlockStatement{
					Path:   path("if"),
					Params: []Expression{path("ok")},
					Program: &Block{Body: []Statement{
						&ElementNode{Tag: "b", Children: []Statement{&TextNode{Chars: "yes"}}},
					}},
					Inverse: &Block{Body: []Statement{&TextNode{Chars: "no"}}},
				},
			}},
		},
		{
			name:  "else if chain",
			input: `{{#if a}}A{{else if b}}B{{else}}C{{/if}}`,
			expected: &Template{Body: []Statement{
				&BlockStatement{
					Path:    path("if"),
					Params:  []Expression{path("a")},
					Program: &Block{Body: []Statement{&TextNode{Chars: "A"}}},
					Inverse: &Block{Body: []Statement{
						&BlockStatement{
							Path:    path("if"),
							Params:  []Expression{path("b")},
							Program: &Block{Body: []Statement{&TextNode{Chars: "B"}}},
							Inverse: &Block{Body: []Statement{&TextNode{Chars: "C"}}},
						},
					}},
				},
			}},
		},
		{
			name:  "each with block params",
			input: `<ul>{{#each items as |item i|}}<li>{{item}}</li>{{/each}}</ul>`,
			expected: &Template{Body: []Statement{
				&ElementNode{
					Tag: "ul",
					Children: []Statement{
						&BlockStatement{
							Path:   path("each"),
							Params: []Expression{path("items")},
							Program: &Block{
								BlockParams: []string{"item", "i"},
								Body: []Statement{
									&ElementNode{
										Tag:      "li",
										Children: []Statement{&MustacheStatement{Path: path("item")}},
									},
								},
							},
						},
					},
				},
			}},
		},
		{
			name:  "comments are dropped",
			input: `<!-- html --><p>{{! note }}{{!-- long --}}x</p>`,
			expected: &Template{Body: []Statement{
				&ElementNode{Tag: "p", Children: []Statement{&TextNode{Chars: "x"}}},
			}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := Parse(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, tpl, ignoreOffsets); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"mismatched element", `<div></span>`, "<div> closed by </span>"},
		{"unclosed element", `<div>`, "<div> is never closed"},
		{"unclosed block", `{{#if a}}x`, "{{#if}} is never closed"},
		{"mismatched block", `{{#if a}}x{{/each}}`, "{{#if}} closed by {{/each}}"},
		{"stray close", `{{/if}}`, "{{/if}} without a matching block"},
		{"else outside block", `a{{else}}b`, "{{else}} outside of a block"},
		{"block closes over element", `{{#if a}}<b>{{/if}}</b>`, "{{/if}} closes a block while <b> is still open"},
		{"element closes over block", `<b>{{#if a}}</b>{{/if}}`, "</b> closes an element while {{#if}} is still open"},
		{"block in attribute", `<div class="{{#if a}}x{{/if}}"></div>`, "block statements are not supported inside attribute values"},
		{"unterminated mustache", `<p>{{name</p>`, "unterminated mustache"},
		{"svg", `<svg><path/></svg>`, "inline svg and math markup is not supported"},
		{"duplicate else", `{{#if a}}x{{else}}y{{else}}z{{/if}}`, "duplicate {{else}}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.input)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Message, tt.message)
		})
	}
}

func TestParseOffsets(t *testing.T) {
	t.Parallel()

	tpl, err := Parse(`<p>ab{{x}}</p>`)
	require.NoError(t, err)

	el := tpl.Body[0].(*ElementNode)
	assert.Equal(t, 0, el.Pos())
	assert.Equal(t, 3, el.Children[0].Pos())
	assert.Equal(t, 5, el.Children[1].Pos())
}
