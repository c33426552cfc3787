package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listJSON bool
	listAll  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupSession,
	Short:   "List sessions in the current profile",
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().BoolVar(&listAll, "all", false, "include sessions across every profile-level group (default lists all already; flag kept for CLI-surface parity)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, "")
	if err != nil {
		return err
	}
	instances := a.Store.Instances()

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(instances)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTOOL\tSTATUS\tGROUP\tPATH")
	for _, inst := range instances {
		group := inst.GroupPath
		if group == "" {
			group = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", inst.IDShort(), inst.Title, inst.Tool, inst.Status, group, inst.ProjectPath)
	}
	return w.Flush()
}
