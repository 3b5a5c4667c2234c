package stages

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/talent-scout/internal/models"
)

const resumeSystemPrompt = `You are an expert resume analyst for a hiring platform.
Extract the candidate's facts from the resume exactly as written.

RULES:
1. Never invent information that is not in the resume
2. Normalize skills into technical, soft and tools
3. Estimate total years of professional experience
4. List claims that lack evidence as weakClaims
5. List claims that look inflated as exaggerations

OUTPUT: Valid JSON only with the fields name, email, phone, location, headline,
summary, links {linkedin, github, portfolio}, skills {technical, soft, tools},
experience [{company, role, duration, responsibilities, technologies, impact}],
education [{institution, degree, field, year}], projects [{name, description,
technologies}], certifications [{name, issuer, year}], achievements,
totalYearsOfExperience, weakClaims, exaggerations.`

const jobSystemPrompt = `You are a job requirements analyst.
Turn the job description into structured hiring requirements.

RULES:
1. Separate mandatory skills from optional ones
2. Express required experience as a {min, max} range in years
3. Identify the competencies that decide success in the role

OUTPUT: Valid JSON only with the fields title, company, description,
mandatorySkills, optionalSkills, experienceRequired {min, max},
responsibilities, qualifications, criticalCompetencies.`

const matchSystemPrompt = `You are a candidate-job matching analyst.
Compare the candidate profile against the job requirements on evidence only.

RULES:
1. Score skills, experience and overall fit from 0 to 100
2. Ignore name, gender, location and institution prestige
3. List strengths, gaps and red flags

OUTPUT: Valid JSON only with the fields overallScore, skillMatch {score,
matched, missing, extra}, experienceMatch {score, yearsRequired,
yearsCandidate, relevant}, strengths, gaps, redFlags, recommendation.`

const planSystemPrompt = `You are an interview planner.
Design a focused interview that verifies the candidate's claims and probes the
gaps found during matching.

RULES:
1. Group questions into sections by topic with a weight between 0 and 1
2. Reference the candidate's real projects and technologies
3. Keep the interview between 10 and 30 minutes

OUTPUT: Valid JSON only with the fields focus, sections [{topic, questions,
purpose, weight}], estimatedDuration, difficultyLevel
(junior|mid|senior|expert).`

const turnSystemPrompt = `You are an adaptive AI interviewer.

RULES:
1. Ask follow-up questions when answers are shallow
2. Move to the next topic when the candidate shows depth
3. Probe vague or evasive answers
4. Never repeat a question
5. Reference the candidate's resume when asking follow-ups
6. End the interview once the planned topics are covered`

const technicalSystemPrompt = `You are a senior technical evaluator.
Score every interview answer on correctness and depth.

RULES:
1. Score each answer from 0 to 10
2. Classify depth as superficial, moderate or deep
3. Classify correctness as incorrect, partial, correct or excellent
4. Flag bluffing when answers use buzzwords without substance
5. Give an overall score from 0 to 100

OUTPUT: Valid JSON only with the fields overallScore, answerEvaluations
[{question, answer, score, reasoning, depth, correctness}], depthAnalysis
{superficial, moderate, deep} as percentages, bluffDetection {detected,
instances}, strengths, weaknesses.`

const biasSystemPrompt = `You are a fairness auditor for a hiring system.
Decide whether the evaluation was driven by merit alone.

CHECKS (true means no bias detected):
1. nameBasedBias
2. genderBias
3. locationBias
4. institutionBias

OUTPUT: Valid JSON only with the fields status (pass|fail), checks
{nameBasedBias, genderBias, locationBias, institutionBias}, warnings,
fairnessScore (0-100).`

const decisionSystemPrompt = `You are the final hiring decision maker.
Weigh the match analysis, the interview evaluation and the fairness audit.

RULES:
1. Recommend hire, consider or reject
2. Give a confidence from 0 to 100
3. Rate the hiring risk as low, medium or high
4. Explain the decision as an ordered list of reasons

OUTPUT: Valid JSON only with the fields recommendation, confidence,
riskLevel, reasoning, keyFactors {positive, negative}, nextSteps.`

// EndSentinel is the token the interviewer emits to finish a session.
const EndSentinel = "END_INTERVIEW"

func toJSON(v any) string {
	if v == nil {
		return "Not available"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

func resumePrompt(resume string) string {
	return fmt.Sprintf("Analyze this resume:\n\n%s\n\nReturn ONLY valid JSON.", resume)
}

func jobPrompt(description string) string {
	return fmt.Sprintf("Analyze this job description:\n\n%s\n\nReturn ONLY valid JSON.", description)
}

func matchPrompt(in MatchInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CANDIDATE PROFILE:\n%s\n\nJOB REQUIREMENTS:\n%s\n", toJSON(in.Candidate), toJSON(in.Job))
	if in.RubricContext != "" {
		fmt.Fprintf(&b, "\nHIRING RUBRICS:\n%s\n", in.RubricContext)
	}
	b.WriteString("\nReturn ONLY valid JSON.")
	return b.String()
}

func planPrompt(in PlanInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CANDIDATE PROFILE:\n%s\n\nJOB REQUIREMENTS:\n%s\n\nMATCH ANALYSIS:\n%s\n",
		toJSON(in.Candidate), toJSON(in.Job), toJSON(in.Match))
	if in.RubricContext != "" {
		fmt.Fprintf(&b, "\nINTERVIEW RUBRICS:\n%s\n", in.RubricContext)
	}
	b.WriteString("\nReturn ONLY valid JSON.")
	return b.String()
}

func turnPrompt(in TurnInput) string {
	name := "the candidate"
	if in.Candidate != nil && in.Candidate.Name != "" {
		name = in.Candidate.Name
	}
	return fmt.Sprintf(`Interview in progress for %s.

CANDIDATE PROFILE:
%s

JOB REQUIREMENTS:
%s

INTERVIEW PLAN:
%s

CONVERSATION HISTORY:
%s

LATEST ANSWER:
%q

Decide the next step: a contextual follow-up, the next planned question, a
harder question, or the end of the interview.
Respond with ONLY the next question, or %s when the interview should conclude.
No JSON, no explanations.`,
		name, toJSON(in.Candidate), toJSON(in.Job), toJSON(in.Plan), toJSON(in.History), in.LatestAnswer, EndSentinel)
}

func technicalPrompt(in TechnicalInput) string {
	return fmt.Sprintf("CANDIDATE PROFILE:\n%s\n\nJOB REQUIREMENTS:\n%s\n\nINTERVIEW PLAN:\n%s\n\nINTERVIEW ANSWERS:\n%s\n\nReturn ONLY valid JSON.",
		toJSON(in.Candidate), toJSON(in.Job), toJSON(in.Plan), toJSON(in.Answers))
}

func biasPrompt(in BiasInput) string {
	var name, location string
	var education []models.Education
	if in.Candidate != nil {
		name, location, education = in.Candidate.Name, in.Candidate.Location, in.Candidate.Education
	}
	return fmt.Sprintf("CANDIDATE:\nName: %s\nLocation: %s\nEducation: %s\n\nMATCH ANALYSIS:\n%s\n\nTECHNICAL EVALUATION:\n%s\n\nReturn ONLY valid JSON.",
		orNotProvided(name), orNotProvided(location), toJSON(education), toJSON(in.Match), technicalOrNone(in.Technical))
}

func decisionPrompt(in DecisionInput) string {
	return fmt.Sprintf("CANDIDATE PROFILE:\n%s\n\nJOB REQUIREMENTS:\n%s\n\nMATCH ANALYSIS:\n%s\n\nTECHNICAL EVALUATION:\n%s\n\nBIAS CHECK:\n%s\n\nReturn ONLY valid JSON.",
		toJSON(in.Candidate), toJSON(in.Job), toJSON(in.Match), technicalOrNone(in.Technical), toJSON(in.Bias))
}

func technicalOrNone(t *models.TechnicalEvaluation) string {
	if t == nil {
		return "No interview conducted"
	}
	return toJSON(t)
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
