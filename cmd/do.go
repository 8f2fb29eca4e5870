package cmd

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/bootstrap"
	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/store"
	"github.com/spf13/cobra"
)

var doTaskID string

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Run pending tasks through the orchestration pipeline",
	Long: `do drives tasks through semantic routing, enhancement,
decomposition, and comprehension-test generation/verification until each
reaches a terminal status, persisting progress after every pipeline node.
With --task, only that task (and any subtasks it generates) runs;
otherwise every non-terminal task in the project runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var runnable []*domain.Task
		if doTaskID != "" {
			task, err := rt.Tasks.FindOne(ctx, ports.TaskFilter{ByID: doTaskID})
			if err != nil {
				return fmt.Errorf("find task %s: %w", doTaskID, err)
			}
			runnable = []*domain.Task{task}
		} else {
			all, err := rt.Tasks.Find(ctx, ports.TaskFilter{All: true}, ports.QueryOptions{})
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			for _, t := range all {
				if !t.Status.Terminal() {
					runnable = append(runnable, t)
				}
			}
		}

		if isPreview() {
			return printDoPreview(runnable)
		}

		summaries := make([]taskSummary, 0, len(runnable))
		for _, task := range runnable {
			if err := rt.Orchestrator.RunTask(ctx, task); err != nil {
				return fmt.Errorf("run task %s: %w", task.ID, err)
			}
			summaries = append(summaries, taskSummary{ID: task.ID, Status: string(task.Status)})
		}

		if isJSON() {
			return printJSON(summaries)
		}
		if !isQuiet() {
			for _, s := range summaries {
				fmt.Printf("%s  ->  %s\n", s.ID, s.Status)
			}
		}
		return nil
	},
}

type taskSummary struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func printDoPreview(tasks []*domain.Task) error {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	if isJSON() {
		return printJSON(map[string]any{"preview": true, "task_ids": ids})
	}
	fmt.Printf("Preview: would run %d task(s)\n", len(tasks))
	return nil
}

func init() {
	doCmd.Flags().StringVar(&doTaskID, "task", "", "Run only this task ID (and any subtasks it generates)")
	rootCmd.AddCommand(doCmd)
}
