package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage learning sessions",
	}

	newCmd := &cobra.Command{
		Use:   "new [subject]",
		Short: "Start an unassessed session for a subject",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSessionNew,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a session document",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionRm,
	}

	contextCmd := &cobra.Command{
		Use:   "context [id]",
		Short: "Retrieve lesson material for the session's subject and level",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionContext,
	}
	contextCmd.Flags().StringSliceP("files", "i", nil, "Material files or glob patterns (.txt, .md)")
	_ = contextCmd.MarkFlagRequired("files")

	sessionCmd.AddCommand(newCmd, showCmd, rmCmd, contextCmd)
	RootCmd.AddCommand(sessionCmd)
}

func runSessionNew(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.svc.StartSession(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if textOutput() {
		fmt.Println(sess.ID)
		return nil
	}
	printJSON(map[string]string{
		"session_id": sess.ID,
		"subject":    sess.Subject,
		"level":      sess.Level.Label(),
	})
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.svc.GetSession(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if textOutput() {
		fmt.Printf("%s  %s  level=%s  mastery=%.1f  correct=%d/%d\n",
			sess.ID, sess.Subject, sess.Level.Label(), sess.Performance.MasteryScore, sess.TotalCorrect, sess.TotalAttempts)
		return nil
	}
	printJSON(sess)
	return nil
}

func runSessionRm(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	printJSON(map[string]string{"deleted": args[0]})
	return nil
}

func runSessionContext(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringSlice("files")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.svc.IngestFiles(cmd.Context(), args[0], files); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	chunks, err := a.svc.LessonContext(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lesson context: %w", err)
	}
	if textOutput() {
		fmt.Println(strings.Join(chunks, "\n\n"))
		return nil
	}
	printJSON(chunks)
	return nil
}
