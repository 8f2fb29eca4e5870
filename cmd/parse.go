package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/riggerhq/rigger/internal/bootstrap"
	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/store"
	"github.com/riggerhq/rigger/internal/util"
	"github.com/spf13/cobra"
)

var parseProjectName string

var parseCmd = &cobra.Command{
	Use:   "parse <prd-file>",
	Short: "Ingest a PRD file and generate its initial task set",
	Long: `parse reads a PRD markdown file, ingests its raw text into the
knowledge base for later RAG lookup, and calls the PRD parser port to
generate the initial generation of tasks, linking each back to the PRD.
Parsing the markdown's internal structure (objectives, tech stack,
constraints) is out of scope: the whole document is passed to the LLM as
context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read PRD file: %w", err)
		}

		root, cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}

		db, err := store.OpenFromConfigAt(root, cfg.Database)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		rt, err := bootstrap.NewRuntime(ctx, root, cfg, db)
		if err != nil {
			return err
		}
		defer rt.Close()

		projectName := parseProjectName
		if projectName == "" {
			projectName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		project := &domain.Project{ID: util.NewID(), Name: projectName}
		if err := rt.Projects.Save(ctx, project); err != nil {
			return fmt.Errorf("save project: %w", err)
		}

		prd := &domain.PRD{
			ID:          util.NewID(),
			ProjectID:   project.ID,
			Title:       projectName,
			RawMarkdown: string(raw),
		}

		if isPreview() {
			if isJSON() {
				return printJSON(map[string]any{"project_id": project.ID, "prd_id": prd.ID, "preview": true})
			}
			fmt.Printf("Preview: would ingest PRD %q (%d bytes) for project %s\n", path, len(raw), project.ID)
			return nil
		}

		if _, err := rt.Pipeline.IngestText(ctx, project.ID, prd.ID, domain.SourcePRD, string(raw)); err != nil {
			return fmt.Errorf("ingest PRD into knowledge base: %w", err)
		}

		tasks, err := rt.Orchestrator.IngestPRD(ctx, prd)
		if err != nil {
			return fmt.Errorf("generate initial tasks: %w", err)
		}

		if isJSON() {
			return printJSON(map[string]any{"project_id": project.ID, "prd_id": prd.ID, "tasks": tasks})
		}
		if !isQuiet() {
			fmt.Printf("Ingested %q: %d tasks generated.\n", path, len(tasks))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseProjectName, "project-name", "", "Project name (defaults to the PRD file's base name)")
	rootCmd.AddCommand(parseCmd)
}
