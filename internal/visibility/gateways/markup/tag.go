package markup

import (
	"bytes"
	"strings"

	"github.com/haukened/condvis/internal/visibility/domain"
)

// attrSpan locates one attribute inside a raw start tag.
// For valueless attributes valStart == valEnd == keyEnd and quote == 0.
type attrSpan struct {
	key      string
	keyEnd   int
	valStart int
	valEnd   int
	quote    byte
	hasValue bool
}

// scanAttrs walks a raw start tag that the tokenizer has already accepted and
// records attribute positions. It follows the tokenizer's attribute rules
// closely enough for tags it produced.
func scanAttrs(tag []byte) []attrSpan {
	var spans []attrSpan
	i := 1 // '<'
	for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}
	for i < len(tag) {
		for i < len(tag) && (isTagSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			break
		}

		keyStart := i
		i++ // a key may start with '='
		for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '/' && tag[i] != '=' && tag[i] != '>' {
			i++
		}
		span := attrSpan{key: strings.ToLower(string(tag[keyStart:i])), keyEnd: i}

		j := i
		for j < len(tag) && isTagSpace(tag[j]) {
			j++
		}
		if j >= len(tag) || tag[j] != '=' {
			span.valStart, span.valEnd = i, i
			spans = append(spans, span)
			continue
		}
		j++
		for j < len(tag) && isTagSpace(tag[j]) {
			j++
		}
		span.hasValue = true
		if j < len(tag) && (tag[j] == '"' || tag[j] == '\'') {
			span.quote = tag[j]
			span.valStart = j + 1
			end := bytes.IndexByte(tag[j+1:], span.quote)
			if end < 0 {
				span.valEnd = len(tag)
				spans = append(spans, span)
				break
			}
			span.valEnd = j + 1 + end
			i = span.valEnd + 1
		} else {
			span.valStart = j
			for j < len(tag) && !isTagSpace(tag[j]) && tag[j] != '>' {
				j++
			}
			span.valEnd = j
			i = j
		}
		spans = append(spans, span)
	}
	return spans
}

func isTagSpace(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t', '\f':
		return true
	}
	return false
}

// displayValue returns the display value that takes effect in an inline style:
// the last !important declaration if any, else the last declaration.
func displayValue(style string) (value string, important bool) {
	var last, lastImportant string
	for _, decl := range strings.Split(style, ";") {
		name, v, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "display") {
			continue
		}
		v = strings.ToLower(strings.TrimSpace(v))
		if base, found := strings.CutSuffix(v, "!important"); found {
			lastImportant = strings.TrimSpace(base)
			continue
		}
		last = v
	}
	if lastImportant != "" {
		return lastImportant, true
	}
	return last, false
}

// hideTag adds the hide style to a raw start tag. It reports false when the
// tag already carries a hiding style and is returned unchanged.
func hideTag(tag []byte, selfClosing bool) ([]byte, bool) {
	spans := scanAttrs(tag)
	for _, a := range spans {
		if a.key != "style" {
			continue
		}
		existing := string(tag[a.valStart:a.valEnd])
		value, important := displayValue(existing)
		if value == "none" {
			return tag, false
		}
		decl := domain.HiddenStyle
		if important {
			decl = importantHiddenStyle
		}
		return replaceStyle(tag, a, existing, decl), true
	}

	insertAt := len(tag) - 1
	if selfClosing && insertAt > 0 && tag[insertAt-1] == '/' && !slashInValue(spans, insertAt-1) {
		insertAt--
	}
	attr := ` style="` + domain.HiddenStyle + `"`
	out := make([]byte, 0, len(tag)+len(attr))
	out = append(out, tag[:insertAt]...)
	out = append(out, attr...)
	out = append(out, tag[insertAt:]...)
	return out, true
}

// slashInValue reports whether the byte at pos belongs to an unquoted value,
// as in <img src=a/>.
func slashInValue(spans []attrSpan, pos int) bool {
	if len(spans) == 0 {
		return false
	}
	last := spans[len(spans)-1]
	return last.hasValue && last.quote == 0 && last.valStart <= pos && pos < last.valEnd
}

// importantHiddenStyle overrides an earlier display declaration marked !important.
const importantHiddenStyle = "display: none !important;"

// replaceStyle appends decl to an existing style attribute.
func replaceStyle(tag []byte, a attrSpan, existing, decl string) []byte {
	value := strings.TrimRight(existing, " \t\n\r\f")
	if value != "" && !strings.HasSuffix(value, ";") {
		value += ";"
	}
	if value != "" {
		value += " "
	}
	value += decl

	var out bytes.Buffer
	out.Grow(len(tag) + len(decl) + 4)
	switch {
	case !a.hasValue:
		out.Write(tag[:a.keyEnd])
		out.WriteString(`="` + value + `"`)
		out.Write(tag[a.keyEnd:])
	case a.quote == 0:
		out.Write(tag[:a.valStart])
		out.WriteString(`"` + value + `"`)
		out.Write(tag[a.valEnd:])
	default:
		out.Write(tag[:a.valStart])
		out.WriteString(value)
		out.Write(tag[a.valEnd:])
	}
	return out.Bytes()
}
