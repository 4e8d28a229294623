package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tutor/internal/chunker"
	"tutor/internal/domain"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chunk [file...]",
		Short: "Split text files into retrieval chunks",
		Long:  "Normalize each file and split it into overlapping sentence-aligned chunks. Flags override the configured sizes.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChunk,
	}

	cmd.Flags().Int("max-words", 0, "Max words per chunk (default from config)")
	cmd.Flags().Int("overlap", -1, "Overlap words between chunks (default from config)")

	RootCmd.AddCommand(cmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	maxWords, _ := cmd.Flags().GetInt("max-words")
	overlap, _ := cmd.Flags().GetInt("overlap")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if maxWords <= 0 {
		maxWords = cfg.Chunker.MaxWords
	}
	if overlap < 0 {
		overlap = cfg.Chunker.OverlapWords
	}
	if overlap >= maxWords {
		return fmt.Errorf("overlap %d must be below max words %d", overlap, maxWords)
	}
	var c domain.Chunker = chunker.New(maxWords, overlap)

	var out []domain.Chunk
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		out = append(out, c.Chunk(domain.Document{Filename: filepath.Base(path), Content: string(data)})...)
	}

	if textOutput() {
		for _, ch := range out {
			fmt.Printf("--- %s #%d (%d words)\n%s\n\n", ch.Filename, ch.Index, len(strings.Fields(ch.Text)), ch.Text)
		}
		return nil
	}
	if out == nil {
		out = []domain.Chunk{}
	}
	printJSON(out)
	return nil
}
