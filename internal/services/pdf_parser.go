package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(filePath string) (string, error)
	ExtractTextWithMetaData(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText implements PDFParserService.
func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	content, err := p.extract(filePath, false)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// ExtractTextWithMetaData implements PDFParserService. Pages are separated by
// a "--- Page N ---" marker.
func (p *pdfParserService) ExtractTextWithMetaData(filePath string) (*PDFContent, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	return p.extract(filePath, true)
}

func (p *pdfParserService) extract(filePath string, markPages bool) (*PDFContent, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		// Unreadable pages are skipped, the rest of the resume is still useful.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if markPages {
			fmt.Fprintf(&textBuilder, "--- Page %d ---\n", pageIndex)
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

// CleanText trims every line and drops the blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
