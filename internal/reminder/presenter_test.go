package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptBounds(t *testing.T) {
	area := Rect{X: 100, Y: 50, Width: 2560, Height: 1440}

	bounds := PromptBounds(area)

	assert.Equal(t, Rect{X: 1992, Y: 1266, Width: 640, Height: 196}, bounds)
}

func TestPromptBounds_OriginArea(t *testing.T) {
	bounds := PromptBounds(Rect{Width: 1920, Height: 1080})

	assert.Equal(t, 1920-PromptWidth-PromptMargin, bounds.X)
	assert.Equal(t, 1080-PromptHeight-PromptMargin, bounds.Y)
}

func TestHeadlessPresenter(t *testing.T) {
	p := NewHeadlessPresenter()

	assert.True(t, p.Present())
	assert.False(t, p.Visible())
	assert.Equal(t, Rect{Width: 1920, Height: 1080}, p.WorkArea())

	prompt := Prompt{ID: 3, Text: "stretch", Theme: "night"}
	p.Show(prompt)
	assert.True(t, p.Visible())
	assert.Equal(t, prompt, p.LastPrompt())

	p.Hide()
	assert.False(t, p.Visible())

	p.Reshow(3)
	assert.True(t, p.Visible())

	shows, reshows, hides := p.Counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, reshows)
	assert.Equal(t, 1, hides)

	p.SetPresent(false)
	assert.False(t, p.Present())
}
