package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedResume is returned for files the loader cannot read.
var ErrUnsupportedResume = errors.New("unsupported resume format")

// ResumeLoader reads a resume file into plain text. Callers pass paths they
// trust: uploaded documents or paths given on the command line.
type ResumeLoader interface {
	LoadFile(path string) (string, error)
}

type resumeLoader struct {
	pdfParser PDFParserService
}

func NewResumeLoader(pdfParser PDFParserService) ResumeLoader {
	return &resumeLoader{pdfParser: pdfParser}
}

// LoadFile implements ResumeLoader.
func (l *resumeLoader) LoadFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("resume path is empty")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read resume %s: %w", path, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("resume %s is empty", path)
		}
		return text, nil
	case ".pdf":
		text, err := l.pdfParser.ExtractText(path)
		if err != nil {
			return "", fmt.Errorf("failed to parse resume %s: %w", path, err)
		}
		return CleanText(text), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedResume, ext)
	}
}
