package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/talent-scout/internal/services"
)

func TestKindForFile(t *testing.T) {
	tests := map[string]string{
		"reference_docs/Fairness_Policy.pdf":   services.KindFairnessPolicy,
		"bias-guidelines.md":                   services.KindFairnessPolicy,
		"Interview_Rubric_Backend.pdf":         services.KindInterviewRubric,
		"scoring_rubric.pdf":                   services.KindHiringRubric,
		"/tmp/Senior_Go_Engineer_Criteria.txt": services.KindHiringRubric,
	}
	for path, want := range tests {
		assert.Equal(t, want, kindForFile(path), path)
	}
}

func TestRubricFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.TXT", "c.md", "d.docx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	files, err := rubricFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.TXT"),
		filepath.Join(dir, "c.md"),
	}, files)

	_, err = rubricFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
