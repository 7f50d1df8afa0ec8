//go:build tesseract

package service

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractOCR runs the local tesseract engine. A client is created per
// call since gosseract clients are not safe for concurrent use.
type TesseractOCR struct{}

func NewTesseractOCR() (ImageOCR, error) {
	return TesseractOCR{}, nil
}

func (TesseractOCR) ExtractImageText(_ context.Context, data []byte, _ string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return text, nil
}
