package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/riggerhq/rigger/internal/config"
	"github.com/riggerhq/rigger/internal/store"
	"github.com/spf13/viper"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isPreview() bool {
	return viper.GetBool("preview")
}

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

// truncateForLog truncates a string to maxLen characters for logging purposes.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func confirmOrAbort(prompt string) bool {
	if isJSON() {
		return true
	}
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return false
	}
	return true
}

// loadProjectConfig resolves the project root and loads its .rigger/config.json.
func loadProjectConfig() (string, *config.RiggerConfig, error) {
	root, err := projectRoot()
	if err != nil {
		return "", nil, fmt.Errorf("resolve project root: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, fmt.Errorf("load config: %w", err)
	}
	return root, cfg, nil
}

// openProjectStore loads the project config and opens its database.
// Callers must Close() the returned DB.
func openProjectStore() (*store.DB, *config.RiggerConfig, string, error) {
	root, cfg, err := loadProjectConfig()
	if err != nil {
		return nil, nil, "", err
	}
	db, err := store.OpenFromConfigAt(root, cfg.Database)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open store: %w", err)
	}
	return db, cfg, root, nil
}
