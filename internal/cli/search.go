package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tutor/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Interactively search study material",
		Long:  "Load material into a session index, show a frequency summary and open an interactive search.",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}

	addMaterialFlags(cmd)
	cmd.Flags().IntP("top-k", "k", 10, "Max results per query")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringSlice("files")
	sessionID, _ := cmd.Flags().GetString("session")
	topK, _ := cmd.Flags().GetInt("top-k")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	title := "Study Material Search"
	if sessionID == "" {
		sessionID = adhocSession
	} else if sess, err := a.svc.GetSession(cmd.Context(), sessionID); err == nil {
		title = fmt.Sprintf("%s (%s)", sess.Subject, sess.Level.Label())
	}

	uploads, err := a.svc.IngestFiles(cmd.Context(), sessionID, files)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	names := make([]string, len(uploads))
	for i, u := range uploads {
		names[i] = u.Filename
	}
	a.log.Info("material loaded", "session_id", sessionID, "files", strings.Join(names, ","))

	m := tui.New(a.svc, tui.Config{
		SessionID: sessionID,
		Title:     title,
		Summary:   a.svc.Summary(sessionID),
		TopK:      topK,
		MinScore:  a.cfg.Retriever.MinScore,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
