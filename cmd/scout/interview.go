package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/interview"
)

const defaultCandidateID = "cli-candidate"

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an adaptive interview in the terminal and print the final report",
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
		req.ConductInterview = true

		prep, err := executor.Prepare(ctx, req)
		if err != nil {
			return err
		}
		if prep.Degraded {
			e.log.Warn("interview planning degraded, asking fallback questions")
		}

		sessions := interview.NewManager(interview.NewMemoryStore(0), e.stageSet().Turn, interview.Options{
			MaxTurns: e.cfg.Interview.MaxTurns,
			Logger:   e.log,
		})
		session, err := sessions.Start(ctx, interview.StartParams{
			CandidateID: defaultCandidateID,
			Candidate:   prep.Candidate,
			Job:         prep.Job,
			Match:       prep.Match,
			Plan:        prep.Plan,
			Bias:        prep.Bias,
			Degraded:    prep.Degraded,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for session.CurrentQuestion != nil {
			fmt.Fprintf(out, "\n%s\n", *session.CurrentQuestion)
			answer, err := (&promptui.Prompt{
				Label:    "Answer",
				Validate: requireAnswer,
			}).Run()
			if err != nil {
				return err
			}

			session, err = sessions.Submit(ctx, session.ID, answer)
			if err != nil {
				return err
			}
		}
		e.log.Info("interview finished", zap.Int("answers", len(session.Answers)))

		tech, err := executor.EvaluateInterview(ctx, prep, session.Answers)
		if err != nil {
			return err
		}
		report, err := executor.Finalize(ctx, prep, tech)
		if err != nil {
			return err
		}

		return writeReport(out, report)
	},
}

func init() {
	interviewCmd.Flags().StringVar(&resumeFlag, "resume", "", "resume file (.pdf, .txt) or raw resume text")
	interviewCmd.Flags().StringVar(&jobFlag, "job", "", "file containing the job description")
	interviewCmd.Flags().BoolVar(&useRubrics, "rubrics", false, "ground matching and planning in the Qdrant knowledge base")
	_ = interviewCmd.MarkFlagRequired("resume")
	_ = interviewCmd.MarkFlagRequired("job")
}

func requireAnswer(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("answer must not be empty")
	}
	return nil
}
