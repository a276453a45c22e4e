package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	want := FromTiles([WordLen]Tile{Absent, Present, Correct, Absent, Absent})
	for _, in := range []string{
		"_~!__",
		" _ ~ ! _ _ ",
		"⬛🟨🟩⬛⬛",
		"⬛\uFE0F🟨🟩⬛ ⬛",
		"_\t~ !\n__",
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "____", "______", "__x__", "crane", "🟩🟩🟩🟩🟩🟩", "bygbb", "ggggg", "⬜🟨🟩⬜⬛"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidFeedback, in)
	}
}

func TestOutcomeEncoding(t *testing.T) {
	assert.Equal(t, "_____", Outcome(0).String())
	assert.Equal(t, "____~", Outcome(1).String())
	assert.Equal(t, "____!", Outcome(2).String())
	assert.Equal(t, "!!!!!", AllCorrect.String())
	assert.Equal(t, "🟩🟩🟩🟩🟩", AllCorrect.Glyphs())
	assert.True(t, AllCorrect.Won())

	for code := 0; code < NumOutcomes; code++ {
		o := Outcome(code)
		assert.Equal(t, o, FromTiles(o.Tiles()))
		back, err := Parse(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, back)
	}
}
