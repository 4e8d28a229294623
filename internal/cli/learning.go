package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutor/internal/service"
)

func init() {
	diagCmd := &cobra.Command{
		Use:   "diagnostic [session-id]",
		Short: "Score a placement round and set the session level",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiagnostic,
	}
	addAnswerFlags(diagCmd)

	submitCmd := &cobra.Command{
		Use:   "submit [session-id]",
		Short: "Record an exercise round and adjust the level",
		Long:  "Record scored answers against a topic and question type, recompute mastery and move the level at most one step.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubmit,
	}
	addAnswerFlags(submitCmd)
	submitCmd.Flags().String("topic", "", "Topic the round covered (default: session subject)")
	submitCmd.Flags().Float64("elapsed", 0, "Seconds spent on the round")
	submitCmd.Flags().Float64Slice("times", nil, "Seconds per question, one per answer (overrides --elapsed)")

	progressCmd := &cobra.Command{
		Use:   "progress [session-id]",
		Short: "Report mastery, weaknesses and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE:  runProgress,
	}
	progressCmd.Flags().StringSlice("topics", nil, "Curriculum topics used to suggest what to study next")

	RootCmd.AddCommand(diagCmd, submitCmd, progressCmd)
}

func runDiagnostic(cmd *cobra.Command, args []string) error {
	answers, err := answersFromFlags(cmd)
	if err != nil {
		return err
	}
	qtype, _ := cmd.Flags().GetString("type")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Diagnostic(cmd.Context(), args[0], answers, qtype)
	if err != nil {
		return fmt.Errorf("diagnostic: %w", err)
	}
	if textOutput() {
		fmt.Printf("score %.1f (%d/%d), level %s\n", res.Score, res.Correct, res.Total, res.Level)
		return nil
	}
	printJSON(res)
	return nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	answers, err := answersFromFlags(cmd)
	if err != nil {
		return err
	}
	qtype, _ := cmd.Flags().GetString("type")
	topic, _ := cmd.Flags().GetString("topic")
	elapsed, _ := cmd.Flags().GetFloat64("elapsed")
	times, _ := cmd.Flags().GetFloat64Slice("times")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.SubmitRound(cmd.Context(), args[0], service.Round{
		Answers:          answers,
		QuestionType:     qtype,
		Topic:            topic,
		ElapsedSeconds:   elapsed,
		PerQuestionTimes: times,
	})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if textOutput() {
		change := "unchanged"
		if res.LevelChanged {
			change = "changed"
		}
		fmt.Printf("accuracy %.1f (%d/%d), mastery %.1f, level %s (%s)\n",
			res.Accuracy, res.Correct, res.Total, res.Mastery, res.NewLevel, change)
		return nil
	}
	printJSON(res)
	return nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	topics, _ := cmd.Flags().GetStringSlice("topics")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.svc.Progress(cmd.Context(), args[0], topics)
	if err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	if textOutput() {
		fmt.Printf("%s  level=%s  mastery=%.1f  accuracy=%.1f\n", p.Subject, p.Level, p.Mastery, p.Accuracy)
		for _, w := range p.Weaknesses {
			fmt.Printf("weak %s %s (%.1f%%)\n", w.Kind, w.Name, w.Accuracy)
		}
		if p.NextTopic != "" {
			fmt.Println("next:", p.NextTopic)
		}
		fmt.Println(strings.Join(p.Recommendations, "\n"))
		return nil
	}
	printJSON(p)
	return nil
}
