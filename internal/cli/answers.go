package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tutor/internal/mastery"
)

func addAnswerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("answers", "a", "", `Scored answers as JSON [{"correct":true},...]; "-" reads stdin`)
	cmd.Flags().String("marks", "", "Shorthand for answers: a string of 1/0 or y/n, e.g. 1101")
	cmd.Flags().StringP("type", "t", mastery.DefaultQuestionType, "Question type ("+strings.Join(mastery.QuestionTypes, ", ")+")")
}

// answersFromFlags reads --answers or --marks; exactly one must be set.
func answersFromFlags(cmd *cobra.Command) ([]mastery.Answer, error) {
	path, _ := cmd.Flags().GetString("answers")
	marks, _ := cmd.Flags().GetString("marks")
	switch {
	case path != "" && marks != "":
		return nil, fmt.Errorf("use either --answers or --marks")
	case marks != "":
		return parseMarks(marks)
	case path != "":
		return readAnswers(path, os.Stdin)
	default:
		return nil, fmt.Errorf("--answers or --marks is required")
	}
}

func readAnswers(path string, stdin io.Reader) ([]mastery.Answer, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var out []mastery.Answer
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return out, nil
}

func parseMarks(marks string) ([]mastery.Answer, error) {
	out := make([]mastery.Answer, 0, len(marks))
	for _, r := range strings.ToLower(marks) {
		switch r {
		case '1', 'y', 't':
			out = append(out, mastery.Answer{Correct: true})
		case '0', 'n', 'f':
			out = append(out, mastery.Answer{Correct: false})
		case ',', ' ':
		default:
			return nil, fmt.Errorf("invalid mark %q", r)
		}
	}
	return out, nil
}
