package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// IsSupportedDocument reports whether the filename has an accepted extension
func IsSupportedDocument(filename string) bool {
	_, ok := documentTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// PDFExtractor pulls the text layer out of a PDF
type PDFExtractor interface {
	ExtractPDFText(data []byte) (string, error)
}

type ledongthucPDF struct{}

func (ledongthucPDF) ExtractPDFText(data []byte) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DocumentService recovers text from uploaded PDFs and images
type DocumentService struct {
	pdf     PDFExtractor
	ocr     ImageOCR
	archive DocumentArchive
	logger  *slog.Logger
}

type DocumentOption func(*DocumentService)

// WithArchive stores a copy of every processed upload
func WithArchive(archive DocumentArchive) DocumentOption {
	return func(s *DocumentService) { s.archive = archive }
}

func WithPDFExtractor(extractor PDFExtractor) DocumentOption {
	return func(s *DocumentService) { s.pdf = extractor }
}

func NewDocumentService(ocr ImageOCR, logger *slog.Logger, opts ...DocumentOption) *DocumentService {
	s := &DocumentService{
		pdf:    ledongthucPDF{},
		ocr:    ocr,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractText dispatches on the file extension. A readable document with no
// recoverable text yields an empty string and no error. Files that cannot be
// parsed fail with ErrDocumentProcessing; a failing OCR engine fails with
// ErrOCRFailed.
func (s *DocumentService) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := documentTypes[ext]
	if !ok {
		return "", ErrUnsupportedDocument
	}

	if ext == ".pdf" {
		text, err := s.pdf.ExtractPDFText(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDocumentProcessing, err)
		}
		return strings.TrimSpace(text), nil
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentProcessing, err)
	}
	text, err := s.ocr.ExtractImageText(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOCRFailed, err)
	}
	return strings.TrimSpace(text), nil
}

// Archive copies the upload to object storage when an archive is
// configured. Failures are logged only.
func (s *DocumentService) Archive(ctx context.Context, userID uint, filename string, data []byte) {
	if s.archive == nil {
		return
	}
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("uploads/%d/%s%s", userID, uuid.NewString(), ext)
	if err := s.archive.PutObject(ctx, key, documentTypes[ext], data); err != nil {
		s.logger.Error("failed to archive upload", "key", key, "error", err)
		return
	}
	s.logger.Info("archived upload", "key", key)
}
