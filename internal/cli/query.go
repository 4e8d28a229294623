package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// adhocSession keys material loaded without --session.
const adhocSession = "adhoc"

func init() {
	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Retrieve the material chunks most relevant to a question",
		Long: "Load the given .txt/.md files into a session index and print the top-k chunk texts. " +
			"When nothing reaches the score threshold the best two chunks are returned anyway.",
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}

	addMaterialFlags(cmd)
	cmd.Flags().IntP("top-k", "k", 0, "Max chunks returned (default from config)")
	cmd.Flags().Float64("min-score", -1, "Relevance threshold (default from config)")

	RootCmd.AddCommand(cmd)
}

func addMaterialFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("files", "i", nil, "Material files or glob patterns (.txt, .md)")
	cmd.Flags().StringP("session", "s", "", "Session id the material belongs to")
	_ = cmd.MarkFlagRequired("files")
}

func runQuery(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringSlice("files")
	sessionID, _ := cmd.Flags().GetString("session")
	topK, _ := cmd.Flags().GetInt("top-k")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	question := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if sessionID == "" {
		sessionID = adhocSession
	}
	if _, err := a.svc.IngestFiles(cmd.Context(), sessionID, files); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if minScore < 0 {
		minScore = a.cfg.Retriever.MinScore
	}

	chunks := a.svc.Retrieve(sessionID, question, topK, minScore)
	if textOutput() {
		fmt.Println(strings.Join(chunks, "\n\n"))
		return nil
	}
	printJSON(chunks)
	return nil
}
