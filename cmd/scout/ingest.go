package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/services"
)

var (
	dirFlag      string
	chunkSize    int
	chunkOverlap int
)

var ingestExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk, embed and store rubric documents in the knowledge base",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		files, err := rubricFiles(dirFlag)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no rubric documents found in %s", dirFlag)
		}

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = e.log.Sync() }()

		kb, err := e.knowledgeBase(ctx)
		if err != nil {
			return err
		}

		pdfParser := services.NewPDFParserService()
		chunker := services.NewTextChunker(chunkSize, chunkOverlap)

		var failed int
		for _, path := range files {
			log := e.log.With(zap.String("file", path))

			text, err := readRubric(pdfParser, path)
			if err != nil {
				log.Error("failed to read document", zap.Error(err))
				failed++
				continue
			}

			kind := kindForFile(path)
			stored, err := kb.Ingest(ctx, filepath.Base(path), kind, chunker.Chunk(text))
			if err != nil {
				log.Error("failed to ingest document", zap.Error(err))
				failed++
				continue
			}
			log.Info("document ingested", zap.String("kind", kind), zap.Int("chunks", stored))
		}

		e.log.Info("ingestion finished", zap.Int("documents", len(files)), zap.Int("failed", failed))
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed to ingest", failed, len(files))
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&dirFlag, "dir", "./reference_docs", "directory holding rubric documents")
	ingestCmd.Flags().IntVar(&chunkSize, "chunk-size", 1000, "maximum runes per chunk")
	ingestCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 200, "runes carried into the next chunk")
}

func rubricFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !ingestExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

func readRubric(pdfParser services.PDFParserService, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err := pdfParser.ExtractTextWithMetaData(path)
		if err != nil {
			return "", err
		}
		return content.Text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// kindForFile guesses the rubric kind from the file name.
func kindForFile(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "fair"), strings.Contains(name, "bias"), strings.Contains(name, "diversity"):
		return services.KindFairnessPolicy
	case strings.Contains(name, "interview"):
		return services.KindInterviewRubric
	default:
		return services.KindHiringRubric
	}
}
