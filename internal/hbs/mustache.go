package hbs

import (
	"strings"
)

type pieceKind int

const (
	pieceText     pieceKind = iota // raw text between mustaches
	pieceMustache                  // {{expr}}
	pieceTriple                    // {{{expr}}} or {{&expr}}
	pieceOpen                      // {{#helper ...}}
	pieceClose                     // {{/helper}}
	pieceElse                      // {{else}}, {{^}}, {{else if ...}}
	pieceComment                   // {{! ...}}, {{!-- ... --}}
)

// piece is a run of text or a single mustache tag. For tags, content holds
// the text between the delimiters with the sigil and ~ markers removed.
type piece struct {
	kind    pieceKind
	content string
	offset  int
}

// splitMustaches cuts s into text runs and mustache tags. base is the offset
// of s in the template, used for positions and errors.
func splitMustaches(s string, base int) ([]piece, error) {
	var pieces []piece
	pos := 0
	for pos < len(s) {
		open := strings.Index(s[pos:], "{{")
		if open < 0 {
			pieces = append(pieces, piece{kind: pieceText, content: s[pos:], offset: base + pos})
			break
		}
		open += pos
		if open > pos {
			pieces = append(pieces, piece{kind: pieceText, content: s[pos:open], offset: base + pos})
		}

		p, end, err := readTag(s, open, base)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
		pos = end
	}
	return pieces, nil
}

// readTag reads the mustache tag starting at s[start:] ("{{") and returns it
// with the offset just past its closing delimiter.
func readTag(s string, start, base int) (piece, int, error) {
	rest := s[start:]

	switch {
	case strings.HasPrefix(rest, "{{{"):
		end := strings.Index(rest, "}}}")
		if end < 0 {
			return piece{}, 0, errorf(base+start, "unterminated {{{")
		}
		content := trimControl(rest[3:end])
		return piece{kind: pieceTriple, content: content, offset: base + start}, start + end + 3, nil
	case strings.HasPrefix(rest, "{{!--"), strings.HasPrefix(rest, "{{~!--"):
		end := strings.Index(rest, "--}}")
		if end < 0 {
			if end = strings.Index(rest, "--~}}"); end < 0 {
				return piece{}, 0, errorf(base+start, "unterminated comment")
			}
			return piece{kind: pieceComment, offset: base + start}, start + end + 5, nil
		}
		return piece{kind: pieceComment, offset: base + start}, start + end + 4, nil
	}

	end := strings.Index(rest, "}}")
	if end < 0 {
		return piece{}, 0, errorf(base+start, "unterminated mustache")
	}
	content := trimControl(rest[2:end])
	next := start + end + 2
	p := piece{offset: base + start}

	switch {
	case strings.HasPrefix(content, "!"):
		p.kind = pieceComment
	case strings.HasPrefix(content, ">"):
		return piece{}, 0, errorf(base+start, "partials are not supported")
	case strings.HasPrefix(content, "&"):
		p.kind, p.content = pieceTriple, strings.TrimSpace(content[1:])
	case strings.HasPrefix(content, "#"):
		p.kind, p.content = pieceOpen, strings.TrimSpace(content[1:])
	case strings.HasPrefix(content, "/"):
		p.kind, p.content = pieceClose, strings.TrimSpace(content[1:])
	case content == "^":
		p.kind = pieceElse
	case content == "else" || strings.HasPrefix(content, "else "):
		p.kind, p.content = pieceElse, strings.TrimSpace(strings.TrimPrefix(content, "else"))
	default:
		p.kind, p.content = pieceMustache, content
	}
	if p.kind != pieceComment && p.kind != pieceElse && p.content == "" {
		return piece{}, 0, errorf(base+start, "empty mustache")
	}
	return p, next, nil
}

// trimControl strips whitespace-control markers and surrounding blanks.
func trimControl(s string) string {
	s = strings.TrimPrefix(s, "~")
	s = strings.TrimSuffix(s, "~")
	return strings.TrimSpace(s)
}

func isBlockPiece(k pieceKind) bool {
	return k == pieceOpen || k == pieceClose || k == pieceElse
}
