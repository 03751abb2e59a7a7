// Package media converts imported images into data URLs stored on the company profile.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxLogoBytes caps the size of an imported logo
const MaxLogoBytes = 1 << 20

const (
	dataURLPrefix = "data:"
	base64Marker  = ";base64,"
)

var (
	ErrNotImage   = errors.New("file is not an image")
	ErrLogoTooBig = fmt.Errorf("logo exceeds %d bytes", MaxLogoBytes)
	ErrBadDataURL = errors.New("malformed data URL")
)

// LogoDataURL reads an image and returns it as a base64 data URL
func LogoDataURL(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if len(data) > MaxLogoBytes {
		return "", ErrLogoTooBig
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	// Drop parameters such as charset that mimetype adds to SVG
	mime := strings.SplitN(mt.String(), ";", 2)[0]
	return dataURLPrefix + mime + base64Marker + base64.StdEncoding.EncodeToString(data), nil
}

// LogoFromFile imports a logo from disk
func LogoFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open logo: %w", err)
	}
	defer f.Close()

	return LogoDataURL(f)
}

// DecodeDataURL splits a base64 data URL into its MIME type and payload
func DecodeDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return "", nil, ErrBadDataURL
	}
	rest := strings.TrimPrefix(s, dataURLPrefix)
	idx := strings.Index(rest, base64Marker)
	if idx < 0 {
		return "", nil, ErrBadDataURL
	}

	data, err := base64.StdEncoding.DecodeString(rest[idx+len(base64Marker):])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	return rest[:idx], data, nil
}

// IsImageDataURL reports whether s is a base64 data URL carrying an image
func IsImageDataURL(s string) bool {
	mime, _, err := DecodeDataURL(s)
	return err == nil && strings.HasPrefix(mime, "image/")
}
