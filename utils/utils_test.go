package utils

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampToFrame(t *testing.T) {
	cases := []struct {
		name string
		in   image.Rectangle
		want image.Rectangle
	}{
		{"inside", image.Rect(10, 10, 50, 50), image.Rect(10, 10, 50, 50)},
		{"left top overflow", image.Rect(-20, -5, 30, 40), image.Rect(0, 0, 30, 40)},
		{"right bottom overflow", image.Rect(600, 450, 700, 500), image.Rect(600, 450, 640, 480)},
		{"outside", image.Rect(700, 500, 800, 600), image.Rectangle{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampToFrame(tc.in, 640, 480)
			if tc.want.Empty() {
				assert.True(t, got.Empty())
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsSelected(t *testing.T) {
	assert.False(t, IsSelected(image.Rectangle{}))
	assert.False(t, IsSelected(image.Rect(10, 10, 10, 40)))
	assert.True(t, IsSelected(image.Rect(10, 10, 11, 11)))
}
