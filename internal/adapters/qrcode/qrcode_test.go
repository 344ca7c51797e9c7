package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_PNG(t *testing.T) {
	enc := NewEncoder(0)
	out, err := enc.PNG("3f0c9a52-6a1e-4c55-9d43-2b7b1f0e8a11")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestEncoder_PNG_EmptyToken(t *testing.T) {
	_, err := NewEncoder(128).PNG("")
	require.Error(t, err)
}
