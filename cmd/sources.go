package cmd

import (
	"fmt"

	"github.com/scottatron-wd/devday/internal/cli"
	"github.com/scottatron-wd/devday/internal/config"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show which session sources are available on this machine",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	reg := newRegistry(cfg, digestOptions(cfg))

	fmt.Println()
	rows := make([][]string, 0, 4)
	for _, e := range reg.All() {
		status := "not found"
		if e.Available() {
			status = "available"
		}
		rows = append(rows, []string{e.Name(), status})
	}

	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"Source", "Status"},
		Rows:    rows,
	}))
	return nil
}
