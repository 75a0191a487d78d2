package cmd

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/theme"
)

func TestPatternConditions(t *testing.T) {
	shared, err := search.EncodeConditions([]search.Condition{{Language: theme.LangFrench, Pattern: "m5"}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		decode  string
		args    []string
		want    []search.Condition
		wantErr error
	}{
		{
			name: "bare pattern targets the theme",
			args: []string{"3a4"},
			want: []search.Condition{{Language: theme.LangDefault, Pattern: "3a4"}},
		},
		{
			name: "language prefix",
			args: []string{"t_n_", "DE=3a4"},
			want: []search.Condition{
				{Language: theme.LangDefault, Pattern: "t_n_"},
				{Language: theme.LangGerman, Pattern: "3a4"},
			},
		},
		{
			name:   "decoded conditions come first",
			decode: shared,
			args:   []string{"5"},
			want: []search.Condition{
				{Language: theme.LangFrench, Pattern: "m5"},
				{Language: theme.LangDefault, Pattern: "5"},
			},
		},
		{
			name:    "unknown language",
			args:    []string{"xx=3"},
			wantErr: search.ErrBadConditions,
		},
		{
			name:    "malformed share string",
			decode:  "not json",
			wantErr: search.ErrBadConditions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patternDecode = tt.decode
			t.Cleanup(func() { patternDecode = "" })

			got, err := patternConditions(tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorSpans(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	c := search.Condition{Language: theme.LangDefault, Pattern: "c5"}
	assert.Equal(t, "Castle", colorSpans(search.Highlight("Castle", c)))
}
