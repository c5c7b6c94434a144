// Package qrcode renders provisioning URIs as PNG QR codes with medium error
// correction.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the image edge in pixels used when size is not positive.
const DefaultSize = 256

// ErrEmptyContent indicates there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: content is empty")

// Render returns a size x size PNG encoding content.
func Render(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode failed: %w", err)
	}
	return png, nil
}

// RenderDataURI returns Render's PNG as a data:image/png;base64 URI for
// embedding in HTML.
func RenderDataURI(content string, size int) (string, error) {
	png, err := Render(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
