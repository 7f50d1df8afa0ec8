//go:build !tesseract

package service

import "errors"

// NewTesseractOCR reports that the binary was built without tesseract
// support. Build with -tags tesseract to enable it.
func NewTesseractOCR() (ImageOCR, error) {
	return nil, errors.New("tesseract OCR requires building with -tags tesseract")
}
