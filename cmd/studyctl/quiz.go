package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/grading"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [youtube-url]",
	Short: "Generate a multiple-choice quiz and take it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("questions")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		printOnly, _ := cmd.Flags().GetBool("print")

		if count < generation.MinQuestions || count > generation.MaxQuestions {
			return fmt.Errorf("--questions must be between %d and %d", generation.MinQuestions, generation.MaxQuestions)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		transcript, err := a.transcript(ctx, cmd, args)
		if err != nil {
			return err
		}

		quiz, err := generation.NewQuizPipeline(a.runner).Generate(ctx, transcript.Text, count, difficulty)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %d question(s) generated with %s (%s)\n\n", len(quiz.Questions), quiz.Model, quiz.Difficulty)

		if printOnly {
			for _, q := range quiz.Questions {
				printQuestion(cmd.OutOrStdout(), q)
				fmt.Fprintf(cmd.OutOrStdout(), "   Answer: %s\n", q.CorrectAnswer)
			}
			return nil
		}

		result, err := takeQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), quiz)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	quizCmd.Flags().IntP("questions", "n", 5, "Number of questions (1-20)")
	quizCmd.Flags().StringP("difficulty", "d", "Medium", "Easy, Medium or Hard")
	quizCmd.Flags().Bool("print", false, "Print the questions with answers instead of taking the quiz")
}

func printQuestion(w io.Writer, q models.QuizQuestion) {
	fmt.Fprintf(w, "\n%d. %s\n", q.ID, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(w, "   %c) %s\n", 'A'+i, opt)
	}
}

// parseChoice accepts an option letter or the option text itself.
func parseChoice(input string, options []string) (string, bool) {
	input = strings.TrimSpace(input)
	if len(input) == 1 {
		idx := int(strings.ToUpper(input)[0] - 'A')
		if idx >= 0 && idx < len(options) {
			return options[idx], true
		}
	}
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), input) {
			return opt, true
		}
	}
	return "", false
}

// takeQuiz asks every question on w, reads choices from r and grades them.
func takeQuiz(r io.Reader, w io.Writer, quiz *models.Quiz) (*models.QuizResult, error) {
	scanner := bufio.NewScanner(r)
	answers := grading.NewAnswerSet()

	for _, q := range quiz.Questions {
		printQuestion(w, q)
		for {
			fmt.Fprint(w, "Your answer: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("input ended: %w", &grading.IncompleteError{
					Answered: answers.Answered(quiz.Questions),
					Total:    len(quiz.Questions),
				})
			}
			choice, ok := parseChoice(scanner.Text(), q.Options)
			if !ok {
				fmt.Fprintf(w, "Pick A-%c or type the option.\n", 'A'+len(q.Options)-1)
				continue
			}
			if err := answers.Record(quiz.Questions, q.ID, choice); err != nil {
				return nil, err
			}
			break
		}
	}

	return answers.Submit(quiz.Questions)
}

func printResult(w io.Writer, result *models.QuizResult) {
	fmt.Fprintln(w)
	for _, r := range result.Results {
		mark := "✓"
		if !r.Correct {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %d. %s\n", mark, r.QuestionID, r.Question)
		if !r.Correct {
			fmt.Fprintf(w, "    You answered: %s\n    Correct:      %s\n", r.UserAnswer, r.CorrectAnswer)
		}
		if r.Explanation != "" {
			fmt.Fprintf(w, "    %s\n", r.Explanation)
		}
	}
	fmt.Fprintf(w, "\nScore: %d/%d (%.0f%%)\n%s\n", result.Score, result.Total, result.Percent, result.Verdict)
}
