package main

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/talent-scout/internal/models"
)

func TestWriteReport(t *testing.T) {
	report := &models.EvaluationReport{MatchScore: 82, RiskLevel: models.RiskLow}

	viper.Set("output", "yaml")
	t.Cleanup(func() { viper.Set("output", "json") })

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report))
	assert.Contains(t, buf.String(), "matchScore: 82\n")
	assert.Contains(t, buf.String(), "riskLevel: low\n")

	viper.Set("output", "json")
	buf.Reset()
	require.NoError(t, writeReport(&buf, report))
	assert.Contains(t, buf.String(), `"matchScore": 82`)

	viper.Set("output", "xml")
	assert.Error(t, writeReport(&buf, report))
}

func TestRequireAnswer(t *testing.T) {
	assert.Error(t, requireAnswer("  "))
	assert.NoError(t, requireAnswer("goroutines"))
}
