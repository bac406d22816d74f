package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
)

const (
	extPDF  = ".pdf"
	extText = ".txt"

	mimePDF = "application/pdf"
)

var (
	// ErrUnsupportedType is returned for file names without a supported extension.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrUnreadablePDF is returned when the PDF parser rejects the payload.
	ErrUnreadablePDF = errors.New("unreadable pdf")
	// ErrEmptyDocument is returned when extraction yields only whitespace.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// Supported reports whether fileName carries an extension the extractor handles.
// Matching is case-sensitive: "lease.PDF" is not supported.
func Supported(fileName string) bool {
	return strings.HasSuffix(fileName, extPDF) || strings.HasSuffix(fileName, extText)
}

// Sniff returns the detected MIME type of data, for logging.
func Sniff(data []byte) string {
	return mimetype.Detect(data).String()
}

// ExtractText returns the plain text of an in-memory upload.
// Libraries used: github.com/ledongthuc/pdf (PDF) and golang.org/x/text (UTF-8 decoding).
func ExtractText(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch {
	case strings.HasSuffix(fileName, extPDF):
		text, err = extractPDF(data)
	case strings.HasSuffix(fileName, extText):
		text, err = decodeText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(fileName))
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// ExtractFile reads path from disk and extracts its text.
func ExtractFile(ctx context.Context, path string) (string, error) {
	fileName := filepath.Base(path)
	if !Supported(fileName) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(fileName))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract file %s: %w", path, err)
	}
	return ExtractText(ctx, data, fileName)
}

func extractPDF(data []byte) (text string, err error) {
	if detected := mimetype.Detect(data); !detected.Is(mimePDF) {
		return "", fmt.Errorf("%w: content sniffed as %s", ErrUnreadablePDF, detected.String())
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: parser panic: %v", ErrUnreadablePDF, rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	return buf.String(), nil
}

// decodeText strips a UTF-8 BOM and replaces invalid byte sequences with U+FFFD.
func decodeText(data []byte) (string, error) {
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(decoded), nil
}
