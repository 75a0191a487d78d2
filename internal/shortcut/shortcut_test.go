package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/theme"
)

func TestParse(t *testing.T) {
	t.Parallel()

	text := `# comment line
Tavle = Blackboard, Whiteboard
HAB=Hot Air Balloon

no equals sign here
a = b = c
 = orphan
ic = ice cream, , gelato
ic = ice cream
`
	tbl := Parse(text)

	assert.Equal(t, []string{"blackboard", "whiteboard"}, tbl.Lookup("tavle"))
	assert.Equal(t, []string{"blackboard", "whiteboard"}, tbl.Lookup(" TAVLE "))
	assert.Equal(t, []string{"hot air balloon"}, tbl.Lookup("hab"))
	assert.Equal(t, []string{"ice cream"}, tbl.Lookup("ic"), "later definition wins")
	assert.Nil(t, tbl.Lookup("a"), "more than one '=' drops the line")
	assert.Nil(t, tbl.Lookup("no equals sign here"))
	assert.Nil(t, tbl.Lookup("# comment line"))
	assert.Equal(t, 3, tbl.Len())
}

func TestParse_EmptyValues(t *testing.T) {
	t.Parallel()

	tbl := Parse("x = , ,")
	assert.Equal(t, 1, tbl.Len())
	assert.Empty(t, tbl.Lookup("x"))
}

func TestTable_StringRoundTrip(t *testing.T) {
	t.Parallel()

	tbl := Parse("zz = b\nTavle = Blackboard,Whiteboard\n")
	assert.Equal(t, "tavle = blackboard, whiteboard\nzz = b\n", tbl.String())
	assert.Equal(t, tbl.String(), Parse(tbl.String()).String())
}

func TestTable_Nil(t *testing.T) {
	t.Parallel()

	var tbl *Table
	assert.Nil(t, tbl.Lookup("x"))
	assert.Zero(t, tbl.Len())
	assert.Equal(t, "", tbl.String())
}

func TestBuiltin(t *testing.T) {
	t.Parallel()

	items := []theme.Item{
		{ID: 1, Theme: "Hot Air Balloon", Shortcut: "HAB", Translations: map[theme.Language]theme.Translation{
			theme.LangGerman: {Translation: "Heißluftballon"},
			theme.LangFrench: {Translation: "Montgolfière"},
		}},
		{ID: 2, Theme: "Tent", Translations: map[theme.Language]theme.Translation{}},
	}

	tbl := Builtin(items)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"hot air balloon", "heißluftballon", "montgolfière"}, tbl.Lookup("hab"))
	assert.Nil(t, tbl.Lookup("tent"))
}

func TestChain(t *testing.T) {
	t.Parallel()

	custom := Parse("bb = blue bird")
	builtin := Parse("bb = blackboard\nwb = whiteboard")

	c := Chain{custom, builtin, nil}
	assert.Equal(t, []string{"blue bird"}, c.Lookup("BB"), "custom shortcuts take precedence")
	assert.Equal(t, []string{"whiteboard"}, c.Lookup("wb"))
	assert.Nil(t, c.Lookup("zz"))
}
