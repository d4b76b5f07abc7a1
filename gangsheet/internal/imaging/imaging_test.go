package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presmtech/storefront/internal/errors"
)

func encodePng(t *testing.T, width, height int) string {
	t.Helper()
	buf := bytes.Buffer{}
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)))
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProbePlainBase64(t *testing.T) {
	width, height, err := Probe(encodePng(t, 320, 240))
	require.NoError(t, err)
	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)
}

func TestProbeDataUrl(t *testing.T) {
	payload := "data:image/png;base64," + encodePng(t, 64, 48)
	width, height, err := Probe(payload)
	require.NoError(t, err)
	assert.Equal(t, 64, width)
	assert.Equal(t, 48, height)
}

func TestProbeInvalidBase64(t *testing.T) {
	_, _, err := Probe("not valid base64!!!")
	assert.ErrorIs(t, err, errors.ErrInvalidImage)
}

func TestProbeNotAnImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("plain text payload"))
	_, _, err := Probe(payload)
	assert.ErrorIs(t, err, errors.ErrInvalidImage)
}
