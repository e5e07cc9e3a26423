package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImagePNG encodes a small two-tone image as PNG bytes.
func testImagePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 30, G: 30, B: 200, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testImagePNG(t, 32, 48))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_ResizesLargeImages(t *testing.T) {
	hash, err := ComputeBlurHash(testImagePNG(t, 300, 200))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_InvalidData(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func TestComputeBlurHashFromDataURL(t *testing.T) {
	data := testImagePNG(t, 32, 32)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	hash, err := ComputeBlurHashFromDataURL(dataURL)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	data, err := DecodeDataURL("data:text/plain;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	_, err = DecodeDataURL("http://example.com/image.png")
	assert.Error(t, err)

	_, err = DecodeDataURL("data:image/png;base64")
	assert.Error(t, err)
}
