package source

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOpen_MissingFile(t *testing.T) {
	v, err := Open(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpen_Directory(t *testing.T) {
	v, err := Open(t.TempDir())
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, ErrNotFound))
}
