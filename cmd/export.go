package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/lesson"
	"github.com/tallgren/codewalk/internal/share"
)

var exportOutput string
var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a lesson to a shareable Markdown or JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, root, err := openStore(cmd)
		if err != nil {
			return err
		}

		var l *lesson.Lesson
		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("lesson id must be a number, got %q", args[0])
			}
			if l = store.Get(id); l == nil {
				return lesson.ErrNotFound
			}
		} else {
			if l = store.Active(); l == nil {
				return fmt.Errorf("no active lesson — pass a lesson id or create one first")
			}
		}

		author := ""
		if p := GetProfile(); p != nil {
			author = p.Name
		}
		b, warnings := share.BuildBundle(l, root, author, nil)

		format := exportFormat
		if format == "" {
			format = GetConfig().ExportFormat
		}

		var renderer share.BundleRenderer
		ext := ".md"
		if format == "json" {
			renderer = &share.JSONRenderer{}
			ext = ".json"
		} else {
			renderer = &share.MarkdownRenderer{Root: root}
		}

		data, err := renderer.Render(b)
		if err != nil {
			return fmt.Errorf("render lesson: %w", err)
		}

		outputPath := exportOutput
		if outputPath == "" {
			outputDir := GetConfig().ExportDir
			if outputDir == "" {
				outputDir = "."
			}
			outputPath = filepath.Join(outputDir, fmt.Sprintf("lesson-%d%s", l.ID, ext))
		}

		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}

		for _, w := range warnings {
			cmd.PrintErrf("warning: %s\n", w)
		}

		cmd.Printf("Exported lesson %d to %s\n", l.ID, outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: markdown or json (overrides config)")
	rootCmd.AddCommand(exportCmd)
}
