package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/theme"
)

type recorder struct {
	got []string
}

func (r *recorder) Write(text string) error {
	r.got = append(r.got, text)
	return nil
}

func TestCopyThemes(t *testing.T) {
	t.Parallel()

	items := []theme.Item{{Theme: "Tent"}, {Theme: "Tune"}}

	var r recorder
	require.NoError(t, CopyThemes(&r, items))
	assert.Equal(t, []string{"Tent\nTune"}, r.got)
}

func TestFormatItem(t *testing.T) {
	t.Parallel()

	it := theme.Item{
		Theme: "Jellyfish",
		Translations: map[theme.Language]theme.Translation{
			theme.LangFrench: {Translation: "Méduse"},
			theme.LangGerman: {Translation: "Qualle"},
			theme.LangDutch:  {Translation: ""},
		},
	}
	assert.Equal(t, "Jellyfish\nde: Qualle\nfr: Méduse", FormatItem(&it))
}
