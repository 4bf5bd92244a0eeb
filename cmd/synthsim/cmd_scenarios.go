package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newScenariosCmd creates the 'scenarios' command, which lists the available
// scenario catalog.
func newScenariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, _ := cmd.Flags().GetString("catalog")
			jsonOut, _ := cmd.Flags().GetBool("json")

			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(catalog.Names())
			}
			for _, name := range catalog.Names() {
				s, err := catalog.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s sigma %.2f  %s\n", s.Name, s.Sigma, s.Description)
			}
			return nil
		},
	}

	cmd.Flags().String("catalog", "", "Scenario catalog YAML file (optional)")
	return cmd
}
