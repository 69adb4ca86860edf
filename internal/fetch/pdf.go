package fetch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/kalambet/coldreach/internal/profile"
)

const maxPDFText = 8000

// ReadPDFFile extracts profile fields from a PDF on disk.
func ReadPDFFile(path string) (profile.Fields, error) {
	f, err := os.Open(path)
	if err != nil {
		return profile.Fields{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return profile.Fields{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return ReadPDF(f, st.Size())
}

// ReadPDF extracts the text layer of a profile PDF, such as LinkedIn's
// "Save to PDF" export, and parses it into profile fields.
func ReadPDF(r io.ReaderAt, size int64) (profile.Fields, error) {
	text, err := pdfText(r, size)
	if err != nil {
		return profile.Fields{}, err
	}
	if strings.TrimSpace(text) == "" {
		return profile.Fields{}, fmt.Errorf("pdf has no text layer")
	}
	f := profile.ParseText(text)
	f.About = truncate(f.About, maxPDFText)
	f.Source = profile.SourcePDF
	return f, nil
}

func pdfText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
