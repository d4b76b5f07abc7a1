package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/presmtech/storefront/internal/errors"
)

// Probe decodes a base64 image payload (optionally a data URL with a
// "data:image/...;base64," prefix) and returns its pixel dimensions without
// decoding the full bitmap.
func Probe(payload string) (width, height int, err error) {
	if idx := strings.Index(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return 0, 0, fmt.Errorf("failed decoding base64 payload: %s with error=%w", err.Error(), errors.ErrInvalidImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("failed probing image: %s with error=%w", err.Error(), errors.ErrInvalidImage)
	}

	return cfg.Width, cfg.Height, nil
}
