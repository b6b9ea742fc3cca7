package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSelection(t *testing.T) {
	def := parseSelection("")
	assert.True(t, def[APP])
	assert.True(t, def[STORE])
	assert.False(t, def[BACKEND_WALK])

	all := parseSelection("all")
	assert.True(t, all[UI_EVENT])

	assert.Empty(t, parseSelection(" none "))

	some := parseSelection("app, menu,")
	assert.Equal(t, map[Category]bool{APP: true, MENU: true}, some)
}
