package search

import "slices"

// SpanKind classifies a piece of highlighted text.
type SpanKind int

const (
	SpanPlain    SpanKind = iota
	SpanLiteral           // matched a literal pattern character or the query
	SpanWildcard          // matched a wildcard run
)

func (k SpanKind) String() string {
	switch k {
	case SpanLiteral:
		return "literal"
	case SpanWildcard:
		return "wildcard"
	}
	return "plain"
}

// Span is a run of the original text with a uniform kind.
type Span struct {
	Text string
	Kind SpanKind
}

// Highlight splits text into wildcard runs and literal runs of the
// condition's pattern. Text that does not line up with the pattern is
// returned as one plain span.
func Highlight(text string, c Condition) []Span {
	plain := []Span{{Text: text, Kind: SpanPlain}}
	if c.Blank() {
		return plain
	}

	pat := Compile(c.Pattern).runes
	orig := []rune(text)
	folded := foldRunes(text)
	if len(orig) != len(pat) || len(folded) != len(pat) {
		return plain
	}

	var spans []Span
	for i := 0; i < len(orig); {
		start := i
		switch {
		case pat[i] == Wildcard:
			for i < len(orig) && pat[i] == Wildcard {
				i++
			}
			spans = append(spans, Span{Text: string(orig[start:i]), Kind: SpanWildcard})
		case pat[i] == folded[i]:
			for i < len(orig) && pat[i] != Wildcard && pat[i] == folded[i] {
				i++
			}
			spans = append(spans, Span{Text: string(orig[start:i]), Kind: SpanLiteral})
		default:
			i++
			spans = appendPlain(spans, string(orig[start:i]))
		}
	}
	return spans
}

// HighlightQuery marks every case- and accent-insensitive occurrence of
// query in text.
func HighlightQuery(text, query string) []Span {
	plain := []Span{{Text: text, Kind: SpanPlain}}
	q := foldRunes(query)
	orig := []rune(text)
	folded := foldRunes(text)
	if len(q) == 0 || len(folded) != len(orig) {
		return plain
	}

	var spans []Span
	last := 0
	for i := 0; i+len(q) <= len(folded); {
		if !slices.Equal(folded[i:i+len(q)], q) {
			i++
			continue
		}
		if i > last {
			spans = append(spans, Span{Text: string(orig[last:i]), Kind: SpanPlain})
		}
		spans = append(spans, Span{Text: string(orig[i : i+len(q)]), Kind: SpanLiteral})
		i += len(q)
		last = i
	}
	if len(spans) == 0 {
		return plain
	}
	if last < len(orig) {
		spans = append(spans, Span{Text: string(orig[last:]), Kind: SpanPlain})
	}
	return spans
}

func appendPlain(spans []Span, s string) []Span {
	if n := len(spans); n > 0 && spans[n-1].Kind == SpanPlain {
		spans[n-1].Text += s
		return spans
	}
	return append(spans, Span{Text: s, Kind: SpanPlain})
}
