package tracking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"0", Boosting},
		{"2", KCF},
		{"6", CSRT},
		{"csrt", CSRT},
		{"CSRT", CSRT},
		{" MedianFlow ", MedianFlow},
		{"mosse", MOSSE},
		{"goturn", GOTURN},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseKind(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseKind_Invalid(t *testing.T) {
	for _, in := range []string{"7", "-1", "kfc", ""} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseKind(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownTracker))
			assert.Contains(t, err.Error(), "boosting, mil, kcf, tld, medianflow, mosse, csrt, goturn")
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"boosting", "mil", "kcf", "tld", "medianflow", "mosse", "csrt", "goturn"}, Names())
}

func TestNew_LegacyTrackersUnavailable(t *testing.T) {
	for _, k := range []Kind{Boosting, TLD, MedianFlow, MOSSE} {
		t.Run(k.String(), func(t *testing.T) {
			assert.False(t, Available(k))
			tr, err := New(k, Options{})
			assert.Nil(t, tr)
			assert.True(t, errors.Is(err, ErrUnavailable))
		})
	}
	for _, k := range []Kind{MIL, KCF, CSRT, GOTURN} {
		assert.True(t, Available(k), k.String())
	}
}

func TestNew_GoturnWithoutModels(t *testing.T) {
	tr, err := New(GOTURN, Options{ModelDir: t.TempDir()})
	assert.Nil(t, tr)
	assert.True(t, errors.Is(err, ErrModelMissing))
}

func TestCheckModels(t *testing.T) {
	dir := t.TempDir()

	err := CheckModels(dir)
	assert.True(t, errors.Is(err, ErrModelMissing))

	require.NoError(t, os.WriteFile(filepath.Join(dir, GoturnCaffeModel), []byte("weights"), 0o644))
	err = CheckModels(dir)
	assert.True(t, errors.Is(err, ErrModelMissing), "prototxt still missing")
	assert.Contains(t, err.Error(), GoturnPrototxt)

	require.NoError(t, os.WriteFile(filepath.Join(dir, GoturnPrototxt), nil, 0o644))
	err = CheckModels(dir)
	assert.True(t, errors.Is(err, ErrModelMissing), "empty prototxt")

	require.NoError(t, os.WriteFile(filepath.Join(dir, GoturnPrototxt), []byte("name: \"GOTURN\""), 0o644))
	assert.NoError(t, CheckModels(dir))
}

func TestOptionsPaths(t *testing.T) {
	o := Options{ModelDir: "models"}
	assert.Equal(t, filepath.Join("models", "goturn.prototxt"), o.Prototxt())
	assert.Equal(t, filepath.Join("models", "goturn.caffemodel"), o.CaffeModel())
}
