package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tutor/internal/level"
)

func init() {
	levelCmd := &cobra.Command{
		Use:   "level",
		Short: "Evaluate level transitions without a session",
	}

	classifyCmd := &cobra.Command{
		Use:   "classify [score]",
		Short: "Map a diagnostic score (0-100) to a level",
		Args:  cobra.ExactArgs(1),
		RunE:  runLevelClassify,
	}

	adjustCmd := &cobra.Command{
		Use:   "adjust [current-level]",
		Short: "Apply one level transition",
		Long:  "Promote or demote at most one step. A mastery value >= 0 takes precedence over accuracy.",
		Args:  cobra.ExactArgs(1),
		RunE:  runLevelAdjust,
	}
	adjustCmd.Flags().Float64("accuracy", 0, "Round accuracy percentage")
	adjustCmd.Flags().Float64("mastery", level.NoMastery, "Mastery score (omit to decide on accuracy)")

	levelCmd.AddCommand(classifyCmd, adjustCmd)
	RootCmd.AddCommand(levelCmd)
}

func runLevelClassify(cmd *cobra.Command, args []string) error {
	score, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	fmt.Println(level.Classify(score))
	return nil
}

func runLevelAdjust(cmd *cobra.Command, args []string) error {
	current, err := level.Parse(args[0])
	if err != nil {
		return err
	}
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")
	mastery, _ := cmd.Flags().GetFloat64("mastery")
	fmt.Println(level.Adjust(current, accuracy, mastery))
	return nil
}
