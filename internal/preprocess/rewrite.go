package preprocess

import (
	"fmt"
	"strings"
)

// Rewrite splices every replacement attribute into text in a single pass,
// copying all bytes outside the replaced spans unchanged. Spans must be
// ascending and non-overlapping; Rewrite does not sort them.
func Rewrite(text string, replacements []ReplacementAttributeReference) (string, error) {
	if err := checkSpans(len(text), replacements); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(text))

	cursor := 0
	for _, r := range replacements {
		sb.WriteString(text[cursor:r.OriginalStartIndex])
		sb.WriteString(r.Attribute)
		cursor = r.OriginalStartIndex + r.OriginalLength
	}
	sb.WriteString(text[cursor:])

	return sb.String(), nil
}

func checkSpans(size int, replacements []ReplacementAttributeReference) error {
	prevEnd := 0
	for i, r := range replacements {
		start, end := r.OriginalStartIndex, r.OriginalStartIndex+r.OriginalLength
		switch {
		case r.OriginalLength <= 0:
			return fmt.Errorf("%w: replacement %d has empty span at %d", ErrInvalidEdits, i, start)
		case start < prevEnd:
			return fmt.Errorf("%w: replacement %d starts at %d before previous end %d", ErrInvalidEdits, i, start, prevEnd)
		case end > size:
			return fmt.Errorf("%w: replacement %d ends at %d past text length %d", ErrInvalidEdits, i, end, size)
		}
		prevEnd = end
	}
	return nil
}
