// Package source normalizes raw definition files into strictly valid JSON
// while recording where every rewritten value physically lived, and resolves
// decoded values back to their original 1-based source lines.
//
// Definition files are semantically valid JSON that authors write with raw,
// un-escaped multi-line string values (typically embedded script between
// <% ... %> delimiters). Preprocess rewrites those values into properly
// escaped single-line JSON strings and produces two recovery tables so that
// diagnostics can still cite exact original lines.
package source

import (
	"encoding/json"
	"regexp"
	"strings"
)

// LineTable holds the two line-recovery maps produced per preprocessed file.
type LineTable struct {
	// FieldLines maps a field name to the 1-based lines where a multiline
	// value for that field began. Coarse; kept for backward compatibility.
	FieldLines map[string][]int

	// HashLines maps a content hash (HashText over the exact unescaped
	// value) to every line-range where that value occurred. A single hash
	// maps to multiple ranges when identical text occurs more than once.
	// Every range is contiguous and non-empty; ranges are appended in
	// file-scan order.
	HashLines map[string][][]int
}

// Result is the output of Preprocess.
type Result struct {
	// ProcessedText is valid JSON whenever every multiline value in the
	// input was properly terminated. Outside rewritten literal lines it is
	// byte-identical to the input.
	ProcessedText string

	Table LineTable
}

// fieldOpenPattern matches the start of a string-valued field:
// optional leading whitespace, a quoted field name, a colon, and an
// opening quote. The remainder of the line is captured for the
// closing-quote test.
var fieldOpenPattern = regexp.MustCompile(`^(\s*"([^"]+)"\s*:\s*")(.*)$`)

// quotedValuePattern matches complete quoted JSON string tokens on a line.
var quotedValuePattern = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)

// Preprocess rewrites raw definition text into parseable JSON and records
// line-recovery tables. It never fails: malformed input (an unterminated
// multiline value at EOF) produces best-effort output that surfaces as a
// JSON decode error in the model builder instead.
func Preprocess(text string) *Result {
	res := &Result{
		Table: LineTable{
			FieldLines: make(map[string][]int),
			HashLines:  make(map[string][][]int),
		},
	}

	lines := strings.Split(text, "\n")
	var out []string

	// Hashes registered by multiline capture; single-line registrations in
	// the second pass never touch these.
	multilineHashes := make(map[string]bool)
	// Lines (1-based) consumed by multiline capture.
	captured := make(map[int]bool)

	inString := false
	var prefix string   // declared field prefix up to and including the opening quote
	var buffer []string // physical value lines accumulated so far
	var span []int      // 1-based lines of the active capture

	flush := func(trailingComma bool, terminated bool) {
		value := strings.Join(buffer, "\n")
		hash := HashText(value)
		res.Table.HashLines[hash] = append(res.Table.HashLines[hash], span)
		multilineHashes[hash] = true
		for _, n := range span {
			captured[n] = true
		}

		escaped, _ := json.Marshal(value)
		line := prefix[:len(prefix)-1] + string(escaped)
		if !terminated {
			// Best-effort output for an unterminated capture: leave the
			// value unclosed so the defect surfaces at JSON decode.
			line = strings.TrimSuffix(line, `"`)
		} else if trailingComma {
			line += ","
		}
		out = append(out, line)

		buffer = nil
		span = nil
		inString = false
	}

	for i, line := range lines {
		lineNo := i + 1

		if !inString {
			m := fieldOpenPattern.FindStringSubmatch(line)
			if m != nil && !hasUnescapedQuote(m[3]) {
				// Enter multiline capture: the value's closing quote is not
				// on this line.
				prefix = m[1]
				field := m[2]
				res.Table.FieldLines[field] = append(res.Table.FieldLines[field], lineNo)
				buffer = append(buffer, m[3])
				span = append(span, lineNo)
				inString = true
				continue
			}
			out = append(out, line)
			continue
		}

		span = append(span, lineNo)
		if content, comma, ok := closesString(line); ok {
			buffer = append(buffer, content)
			flush(comma, true)
		} else {
			buffer = append(buffer, line)
		}
	}

	// EOF while still inside a string: malformed input. Flush what we have
	// rather than raising.
	if inString {
		flush(false, false)
	}

	res.ProcessedText = strings.Join(out, "\n")

	registerSingleLineValues(lines, captured, multilineHashes, res.Table.HashLines)

	return res
}

// registerSingleLineValues is the second pass. It runs over the original,
// not processed, lines: any quoted value embedding the script delimiter
// pair that was not already captured as multiline is unescaped once, hashed,
// and registered as a one-line range. Hashes already claimed by a multiline
// capture are left alone.
func registerSingleLineValues(lines []string, captured map[int]bool, multilineHashes map[string]bool, hashLines map[string][][]int) {
	for i, line := range lines {
		lineNo := i + 1
		if captured[lineNo] {
			continue
		}
		if !strings.Contains(line, "<%") || !strings.Contains(line, "%>") {
			continue
		}
		for _, quoted := range quotedValuePattern.FindAllString(line, -1) {
			if !strings.Contains(quoted, "<%") {
				continue
			}
			var value string
			if err := json.Unmarshal([]byte(quoted), &value); err != nil {
				continue
			}
			hash := HashText(value)
			if multilineHashes[hash] {
				continue
			}
			hashLines[hash] = append(hashLines[hash], []int{lineNo})
		}
	}
}

// hasUnescapedQuote reports whether s contains a double quote that is not
// preceded by an odd number of backslashes.
func hasUnescapedQuote(s string) bool {
	backslashes := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			backslashes++
		case '"':
			if backslashes%2 == 0 {
				return true
			}
			backslashes = 0
		default:
			backslashes = 0
		}
	}
	return false
}

// closesString tests whether a physical line terminates the active
// multiline value: an unescaped closing quote at end-of-line, optionally
// followed by a trailing comma. It returns the value content before the
// quote and whether a comma followed.
func closesString(line string) (content string, trailingComma bool, ok bool) {
	trimmed := strings.TrimRight(line, " \t\r")

	comma := strings.HasSuffix(trimmed, ",")
	if comma {
		trimmed = strings.TrimRight(trimmed[:len(trimmed)-1], " \t")
	}
	if !strings.HasSuffix(trimmed, `"`) {
		return "", false, false
	}

	body := trimmed[:len(trimmed)-1]
	// The closing quote must itself be unescaped.
	backslashes := 0
	for i := len(body) - 1; i >= 0 && body[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 != 0 {
		return "", false, false
	}
	return body, comma, true
}
