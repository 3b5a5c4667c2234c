package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/talent-scout/internal/pipeline"
)

var (
	resumeFlag    string
	jobFlag       string
	interviewFlag bool
	useRubrics    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a resume against a job description and print the report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		job, err := readJob(jobFlag)
		if err != nil {
			return err
		}

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = e.log.Sync() }()

		executor, err := e.executor(ctx, useRubrics)
		if err != nil {
			return err
		}

		req := resumeRequest(resumeFlag)
		req.JobDescription = job
		req.ConductInterview = interviewFlag

		report, err := executor.Evaluate(ctx, req)
		if err != nil {
			return err
		}

		return writeReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&resumeFlag, "resume", "", "resume file (.pdf, .txt) or raw resume text")
	evaluateCmd.Flags().StringVar(&jobFlag, "job", "", "file containing the job description")
	evaluateCmd.Flags().BoolVar(&interviewFlag, "interview", false, "also produce an interview plan")
	evaluateCmd.Flags().BoolVar(&useRubrics, "rubrics", false, "ground matching and planning in the Qdrant knowledge base")
	_ = evaluateCmd.MarkFlagRequired("resume")
	_ = evaluateCmd.MarkFlagRequired("job")
}

// resumeRequest reads --resume as a file when one exists at that path and as
// resume text otherwise.
func resumeRequest(resume string) pipeline.Request {
	if info, err := os.Stat(resume); err == nil && info.Mode().IsRegular() {
		return pipeline.Request{ResumePath: resume}
	}
	return pipeline.Request{Resume: resume}
}

func readJob(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	job := strings.TrimSpace(string(data))
	if job == "" {
		return "", fmt.Errorf("job description %s is empty", path)
	}
	return job, nil
}
