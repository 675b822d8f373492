package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FileExtractService reads a transcript out of an uploaded .txt, .pdf or
// .docx file.
type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

func SupportedTranscriptFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".pdf", ".docx":
		return true
	default:
		return false
	}
}

func (s *FileExtractService) ExtractTextFromPath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return s.ExtractText(filepath.Base(path), data)
}

// ExtractText picks the parser from the file name's extension.
func (s *FileExtractService) ExtractText(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".txt":
		return s.extractTXT(data)
	case ".pdf":
		return s.extractPDF(data)
	case ".docx":
		return s.extractDOCX(data)
	default:
		return "", &ValidationError{Fields: map[string]string{"file": fmt.Sprintf("unsupported file type %q (use .txt, .pdf or .docx)", ext)}}
	}
}

func (s *FileExtractService) extractTXT(data []byte) (string, error) {
	text := normalizeExtractedText(string(data))
	if text == "" {
		return "", fmt.Errorf("text file is empty")
	}
	return text, nil
}

func (s *FileExtractService) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := normalizeExtractedText(b.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return text, nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		documentXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}

	if len(documentXML) == 0 {
		return "", fmt.Errorf("docx document.xml not found")
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", fmt.Errorf("no extractable text found in docx")
	}
	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

// normalizeExtractedText trims every line and collapses runs of blank lines.
func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	emptyCount := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
