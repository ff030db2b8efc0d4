// Package digest builds the size-bounded conversation transcript string
// owned by a session, and splits long digests into chunks for summarization.
package digest

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FragmentSeparator joins message fragments in an assembled digest.
// Chunk splitting relies on it to find message boundaries.
const FragmentSeparator = "\n\n"

// TruncationMarker is inserted where the middle of a digest was cut.
// It never appears in a digest that fits its budget.
const TruncationMarker = "\n\n[... conversation truncated ...]\n\n"

// cutEdgeChars are trimmed from the dangling edges of a truncation cut.
const cutEdgeChars = " \t\n"

// Fragment renders one role-tagged message fragment, capping the message
// text at messageMax characters.
func Fragment(role, text string, messageMax int) string {
	return fmt.Sprintf("[%s]: %s", role, TruncateMessageText(text, messageMax))
}

// Build joins fragments into a digest and bounds it at digestMax characters.
func Build(fragments []string, digestMax int) string {
	return Truncate(strings.Join(fragments, FragmentSeparator), digestMax)
}

// TruncateMessageText caps a single message's text at max characters,
// appending an ellipsis when cut. max <= 0 disables the cap.
func TruncateMessageText(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Truncate bounds an assembled digest at max characters, preserving head
// and tail context around a TruncationMarker. Idempotent: a digest within
// budget is returned unchanged. max <= 0 disables the cap. The result
// never exceeds max characters. Budgets count runes, not bytes, so
// multibyte digests are measured the same as ASCII ones and cuts never
// land inside a rune.
func Truncate(d string, max int) string {
	if max <= 0 {
		return d
	}
	runes := []rune(d)
	if len(runes) <= max {
		return d
	}

	budget := max - utf8.RuneCountInString(TruncationMarker)
	if budget <= 0 {
		// Budget too small to mark the cut; a bare head is all that fits.
		return string(runes[:max])
	}

	headBudget := budget * 55 / 100
	tailBudget := budget - headBudget

	head := strings.TrimRight(string(runes[:headBudget]), cutEdgeChars)
	tail := strings.TrimLeft(string(runes[len(runes)-tailBudget:]), cutEdgeChars)

	return head + TruncationMarker + tail
}

// IsTruncated reports whether a digest was cut by Truncate.
func IsTruncated(d string) bool {
	return strings.Contains(d, TruncationMarker)
}

// SplitChunks splits a digest into sequential chunks of at most chunkChars
// characters, cutting only on fragment boundaries. A single fragment larger
// than chunkChars becomes its own oversized chunk. chunkChars <= 0 disables
// chunking. When the natural split exceeds maxChunks, adjacent chunks are
// merged until the cap is met.
func SplitChunks(d string, chunkChars, maxChunks int) []string {
	if chunkChars <= 0 || utf8.RuneCountInString(d) <= chunkChars {
		return []string{d}
	}

	sepChars := utf8.RuneCountInString(FragmentSeparator)
	frags := strings.Split(d, FragmentSeparator)
	var chunks []string
	var cur strings.Builder
	curChars := 0

	for _, f := range frags {
		fragChars := utf8.RuneCountInString(f)
		if curChars > 0 && curChars+sepChars+fragChars > chunkChars {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curChars = 0
		}
		if curChars > 0 {
			cur.WriteString(FragmentSeparator)
			curChars += sepChars
		}
		cur.WriteString(f)
		curChars += fragChars
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}

	if maxChunks > 0 {
		for len(chunks) > maxChunks {
			chunks = mergeSmallestAdjacent(chunks)
		}
	}

	return chunks
}

// mergeSmallestAdjacent merges the adjacent pair with the smallest combined
// length, keeping the merge deterministic.
func mergeSmallestAdjacent(chunks []string) []string {
	best := 0
	bestLen := utf8.RuneCountInString(chunks[0]) + utf8.RuneCountInString(chunks[1])
	for i := 1; i < len(chunks)-1; i++ {
		if l := utf8.RuneCountInString(chunks[i]) + utf8.RuneCountInString(chunks[i+1]); l < bestLen {
			best, bestLen = i, l
		}
	}

	merged := make([]string, 0, len(chunks)-1)
	merged = append(merged, chunks[:best]...)
	merged = append(merged, chunks[best]+FragmentSeparator+chunks[best+1])
	merged = append(merged, chunks[best+2:]...)
	return merged
}
