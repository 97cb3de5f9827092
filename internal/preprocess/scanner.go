package preprocess

import "fmt"

// AttributeReference locates one attribute assignment whose value contains a
// block-statement pair. StartIndex and Length are byte offsets into the
// original text and cover the whole `name="value"` assignment.
type AttributeReference struct {
	AttributeName string
	Value         string
	StartIndex    int
	Length        int
}

// End is the byte offset just past the attribute assignment.
func (r AttributeReference) End() int { return r.StartIndex + r.Length }

// ScanAttributes returns every attribute assignment in text whose value
// contains a block-statement pair, in ascending offset order.
func ScanAttributes(text string) ([]AttributeReference, error) {
	var refs []AttributeReference

	// regexp2 reports rune positions
	offsets := byteOffsets(text)

	m, err := attributeRegex.FindStringMatch(text)
	for m != nil && err == nil {
		var found bool
		found, err = hasBlockPair(m.String())
		if err != nil {
			break
		}
		if found {
			start, end := offsets[m.Index], offsets[m.Index+m.Length]
			refs = append(refs, AttributeReference{
				AttributeName: m.GroupByNumber(1).String(),
				Value:         m.GroupByNumber(2).String(),
				StartIndex:    start,
				Length:        end - start,
			})
		}
		m, err = attributeRegex.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning attributes: %w", err)
	}
	return refs, nil
}

// byteOffsets maps every rune index of text (plus the end position) to its
// byte offset. Invalid UTF-8 bytes count as one rune each, as in []rune(text).
func byteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
