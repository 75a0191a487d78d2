package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/corpus"
	"github.com/f3rmion/gtb/internal/theme"
)

func item(id int, th string, tr map[theme.Language]string) theme.Item {
	it := theme.Item{ID: id, Theme: th, Translations: map[theme.Language]theme.Translation{}}
	for l, s := range tr {
		it.Translations[l] = theme.Translation{Translation: s}
	}
	return it
}

func themes(items []theme.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Theme
	}
	return out
}

func fixture() []theme.Item {
	return []theme.Item{
		item(1, "Sandcastle", map[theme.Language]string{theme.LangGerman: "Sandburg"}),
		item(2, "Fortress", map[theme.Language]string{theme.LangGerman: "Castle"}),
		item(3, "Castle Wall", nil),
		item(4, "Castle", map[theme.Language]string{theme.LangGerman: "Burg"}),
		item(5, "Tent", map[theme.Language]string{theme.LangGerman: "Zelt"}),
		item(6, "Tune", nil),
		item(7, "Tan", nil),
		item(8, "Ice Cream", map[theme.Language]string{theme.LangGerman: "Eiscreme"}),
		item(9, "Crème Brûlée", nil),
	}
}

func TestSearch_Ranking(t *testing.T) {
	t.Parallel()

	idx := NewIndex(fixture())

	assert.Equal(t, []string{"Castle", "Fortress"}, themes(idx.Search("castle", true)))
	assert.Equal(t,
		[]string{"Castle", "Castle Wall", "Sandcastle", "Fortress"},
		themes(idx.Search("Castle", false)),
	)
}

func TestSearch_Normalization(t *testing.T) {
	t.Parallel()

	idx := NewIndex(fixture())

	assert.Equal(t, []string{"Ice Cream"}, themes(idx.Search("  ICE   cream ", true)))
	assert.Equal(t, []string{"Crème Brûlée"}, themes(idx.Search("creme brulee", true)))
	assert.Equal(t, []string{"Castle"}, themes(idx.Search("burg", true)))
}

func TestSearch_Empty(t *testing.T) {
	t.Parallel()

	idx := NewIndex(fixture())
	assert.Empty(t, idx.Search("", false))
	assert.Empty(t, idx.Search("   ", false))
	assert.Empty(t, idx.Search("zzzz", false))
}

func TestSearch_PartialContainsExact(t *testing.T) {
	t.Parallel()

	c, err := corpus.Default()
	require.NoError(t, err)
	idx := NewIndex(c.Items())

	for _, q := range []string{"castle", "tent", "board", "ship", "a", "qualle", "tavle"} {
		exact := idx.Search(q, true)
		partial := idx.Search(q, false)

		ids := make(map[int]bool, len(partial))
		for _, it := range partial {
			ids[it.ID] = true
		}
		for _, it := range exact {
			assert.True(t, ids[it.ID], "%q: exact hit %q missing from partial results", q, it.Theme)
		}
	}
}

func TestSearch_Cache(t *testing.T) {
	t.Parallel()

	cached := NewIndex(fixture(), WithCacheSize(2))
	uncached := NewIndex(fixture(), WithCacheSize(0))

	for range 3 {
		for _, q := range []string{"castle", "tent", "burg"} {
			assert.Equal(t, uncached.Search(q, false), cached.Search(q, false), q)
			assert.Equal(t, uncached.Search(q, true), cached.Search(q, true), q)
		}
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"3a4", "___a____"},
		{"t_n_", "t_n_"},
		{"T_N_", "t_n_"},
		{"3-5", "___ _____"},
		{"12", "____________"},
		{"123", "_______________"},
		{" 9! ", "_________!"},
		{"crème-6", "creme ______"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Compile(tt.raw).String())
		})
	}
}

func TestPatternSearch(t *testing.T) {
	t.Parallel()

	idx := NewIndex(fixture())

	tests := []struct {
		name  string
		conds []Condition
		want  []string
	}{
		{"wildcards", []Condition{{Pattern: "t_n_"}}, []string{"Tent", "Tune"}},
		{"digit run", []Condition{{Language: theme.LangDefault, Pattern: "t3"}}, []string{"Tent", "Tune"}},
		{"space not matched", []Condition{{Pattern: "9"}}, nil},
		{"space wildcard", []Condition{{Pattern: "9!"}}, []string{"Ice Cream"}},
		{"hyphen", []Condition{{Pattern: "3-5"}}, []string{"Ice Cream"}},
		{"accents", []Condition{{Pattern: "creme-6"}}, []string{"Crème Brûlée"}},
		{"translation", []Condition{{Language: theme.LangGerman, Pattern: "z3"}}, []string{"Tent"}},
		{"missing language fails", []Condition{{Language: theme.LangGerman, Pattern: "t_n_"}}, nil},
		{"and", []Condition{{Pattern: "6"}, {Language: theme.LangGerman, Pattern: "b3"}}, []string{"Castle"}},
		{"blank ignored", []Condition{{Pattern: "  "}, {Pattern: "t2"}}, []string{"Tan"}},
		{"all blank", []Condition{{Pattern: ""}, {Pattern: " "}}, nil},
		{"none", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := idx.PatternSearch(tt.conds)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, themes(got))
		})
	}
}

func TestPatternSearch_Corpus(t *testing.T) {
	t.Parallel()

	c, err := corpus.Default()
	require.NoError(t, err)
	idx := NewIndex(c.Items())

	got := themes(idx.PatternSearch([]Condition{{Pattern: "t_n_"}}))
	assert.Contains(t, got, "Tent")
	assert.Contains(t, got, "Tank")
	assert.NotContains(t, got, "Tree")
	for _, th := range got {
		assert.True(t, Compile("t_n_").Match(th), th)
	}
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		cond Condition
		want []Span
	}{
		{
			name: "alternating",
			text: "Tent",
			cond: Condition{Pattern: "t_n_"},
			want: []Span{
				{"T", SpanLiteral}, {"e", SpanWildcard}, {"n", SpanLiteral}, {"t", SpanWildcard},
			},
		},
		{
			name: "runs merge",
			text: "Crème Brûlée",
			cond: Condition{Pattern: "cr3-6"},
			want: []Span{
				{"Cr", SpanLiteral}, {"ème", SpanWildcard}, {" ", SpanLiteral}, {"Brûlée", SpanWildcard},
			},
		},
		{
			name: "mismatch stays plain",
			text: "Tent",
			cond: Condition{Pattern: "x3"},
			want: []Span{{"T", SpanPlain}, {"ent", SpanWildcard}},
		},
		{
			name: "length differs",
			text: "Tent",
			cond: Condition{Pattern: "t2"},
			want: []Span{{"Tent", SpanPlain}},
		},
		{
			name: "blank",
			text: "Tent",
			cond: Condition{},
			want: []Span{{"Tent", SpanPlain}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Highlight(tt.text, tt.cond))
		})
	}
}

func TestHighlightQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]Span{{"Sand", SpanPlain}, {"castle", SpanLiteral}},
		HighlightQuery("Sandcastle", "CASTLE"),
	)
	assert.Equal(t,
		[]Span{{"Crème", SpanLiteral}, {" Brûlée", SpanPlain}},
		HighlightQuery("Crème Brûlée", "creme"),
	)
	assert.Equal(t,
		[]Span{{"a", SpanLiteral}, {"b", SpanPlain}, {"a", SpanLiteral}},
		HighlightQuery("aba", "a"),
	)
	assert.Equal(t, []Span{{"Tent", SpanPlain}}, HighlightQuery("Tent", ""))
	assert.Equal(t, []Span{{"Tent", SpanPlain}}, HighlightQuery("Tent", "zz"))
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := make([]int, 120)
	for i := range items {
		items[i] = i
	}

	page, total := Paginate(items, 1, 50)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 50)
	assert.Equal(t, 0, page[0])

	page, _ = Paginate(items, 3, 50)
	assert.Len(t, page, 20)
	assert.Equal(t, 100, page[0])

	page, _ = Paginate(items, 4, 50)
	assert.Empty(t, page)
	page, _ = Paginate(items, 0, 50)
	assert.Empty(t, page)

	_, total = Paginate(items, 1, 0)
	assert.Equal(t, 3, total, "size defaults to DefaultPageSize")

	page, total = Paginate([]int(nil), 1, 50)
	assert.Empty(t, page)
	assert.Zero(t, total)
}

func TestConditionsRoundTrip(t *testing.T) {
	t.Parallel()

	conds := []Condition{
		{Pattern: "3a4"},
		{Language: theme.LangGerman, Pattern: "z3"},
		{Language: theme.LangJapanese, Pattern: "  "},
	}

	s, err := EncodeConditions(conds)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"l":"default","p":"3a4"},{"l":"de","p":"z3"}]`, s)

	got, err := DecodeConditions(s)
	require.NoError(t, err)
	assert.Equal(t, []Condition{
		{Language: theme.LangDefault, Pattern: "3a4"},
		{Language: theme.LangGerman, Pattern: "z3"},
	}, got)
}

func TestDecodeConditions(t *testing.T) {
	t.Parallel()

	got, err := DecodeConditions(`[{"p":"t_n_"}]`)
	require.NoError(t, err)
	assert.Equal(t, []Condition{{Language: theme.LangDefault, Pattern: "t_n_"}}, got)

	for _, bad := range []string{`{not json`, `{"l":"de"}`, `[{"l":"xx","p":"a"}]`} {
		_, err := DecodeConditions(bad)
		assert.ErrorIs(t, err, ErrBadConditions, bad)
	}
}

func TestParseCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Condition
		wantErr bool
	}{
		{in: "t_n_", want: Condition{Language: theme.LangDefault, Pattern: "t_n_"}},
		{in: "de=3a4", want: Condition{Language: theme.LangGerman, Pattern: "3a4"}},
		{in: " ZH-CN = 2 ", want: Condition{Language: theme.LangChineseS, Pattern: "2"}},
		{in: "=hot-3!", want: Condition{Language: theme.LangDefault, Pattern: "hot-3!"}},
		{in: "xx=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCondition(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadConditions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
