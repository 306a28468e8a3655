package preprocess

import "strings"

type state int

const (
	stNormal state = iota
	stString
	stLineComment
	stBlockComment
)

// Strip removes line and block comments from src. Newlines inside comments
// are kept so that line i of the result is line i of src. Single- and
// double-quoted literals are copied verbatim, so comment markers inside them
// survive. An unterminated block comment runs to EOF and an unterminated
// string ends at the end of its line.
func Strip(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	st := stNormal
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch st {
		case stNormal:
			if c == '/' && i+1 < len(src) {
				switch src[i+1] {
				case '/':
					st = stLineComment
					i++
					continue
				case '*':
					st = stBlockComment
					i++
					continue
				}
			}
			if c == '"' || c == '\'' {
				st, quote = stString, c
			}
			b.WriteByte(c)
		case stString:
			b.WriteByte(c)
			switch {
			case c == quote, isNewline(c):
				st = stNormal
			case c == '\\' && i+1 < len(src) && !isNewline(src[i+1]):
				i++
				b.WriteByte(src[i])
			}
		case stLineComment:
			// \r is left in place so CRLF and lone-CR files keep their breaks.
			if isNewline(c) {
				st = stNormal
				b.WriteByte(c)
			}
		case stBlockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				st = stNormal
				i++
				continue
			}
			if isNewline(c) {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

func isNewline(c byte) bool { return c == '\n' || c == '\r' }

// Lines splits text on \n, \r\n and lone \r. A trailing line break does not
// start an extra empty line, and empty input has no lines.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			out = append(out, text[start:i])
			start = i + 1
		case '\r':
			out = append(out, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
