package display

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestEnableCBreak_NotATerminal(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "input"))
	assert.NoError(t, err)
	defer func() { _ = file.Close() }()

	restore, err := enableCBreak(file)
	assert.ErrorContains(t, err, "reading terminal attributes")
	assert.True(t, restore == nil)
}
