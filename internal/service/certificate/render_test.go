package certificate

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNG(t *testing.T) {
	data, err := renderPNG("Jane Doe", "Intro to Go", 8, 10, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, certWidth, bounds.Dx())
	assert.Equal(t, certHeight, bounds.Dy())
}

func TestRenderPNGEmptyNameStillRenders(t *testing.T) {
	data, err := renderPNG("", "Course", 0, 0, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
