package ir

import (
	"fmt"
	"strings"
)

// FormatListing renders code as the line-oriented intermediate-code listing
// of spec.md §6: each line is a zero-padded index, a period, a space, then
// the instruction's fixed-column record.
func FormatListing(code []Instruction) string {
	width := len(fmt.Sprintf("%d", len(code)))
	if width < 1 {
		width = 1
	}

	var sb strings.Builder
	for i, ins := range code {
		fmt.Fprintf(&sb, "%0*d. %s\n", width, i, ins)
	}
	return sb.String()
}
