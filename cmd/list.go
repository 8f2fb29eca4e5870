package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/store"
	"github.com/spf13/cobra"
)

var listStatusFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, ordered by orchestration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, _, err := openProjectStore()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := store.NewTaskRepository(db)
		filter := ports.TaskFilter{All: true}
		if listStatusFilter != "" {
			filter = ports.TaskFilter{ByStatus: domain.TaskStatus(listStatusFilter)}
		}

		tasks, err := repo.Find(context.Background(), filter, ports.QueryOptions{})
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}

		sort.Slice(tasks, func(i, j int) bool {
			return statusToInt(tasks[i].Status) < statusToInt(tasks[j].Status)
		})

		if isJSON() {
			return printJSON(tasks)
		}

		if isQuiet() {
			for _, t := range tasks {
				fmt.Println(t.ID)
			}
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("%s  [%s]  %s\n", t.ID, t.Status, t.Title)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatusFilter, "status", "", "Filter by task status (e.g. Todo, Completed)")
	rootCmd.AddCommand(listCmd)
}
