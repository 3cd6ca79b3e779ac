package errs

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataLoadErrorMatching(t *testing.T) {
	err := Load("data/x.xlsx", "open", fs.ErrNotExist)
	assert.True(t, errors.Is(err, ErrDataLoad))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "data/x.xlsx")
	assert.Contains(t, err.Error(), "open")

	var dl *DataLoadError
	assert.True(t, errors.As(err, &dl))
	assert.Equal(t, "data/x.xlsx", dl.Path)
}

func TestDataLoadErrorWithoutCause(t *testing.T) {
	err := Load("a.shp", "missing field AC_NAME", nil)
	assert.Equal(t, "data load a.shp: missing field AC_NAME", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
