package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the targets and actions of the loaded catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c, err := requireClient()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cat := c.Catalog()
	source := "parsed"
	if cat.FromCache {
		source = "cached"
	}
	fmt.Fprintln(out, titleStyle.Render(cat.Source))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d commands, %d targets, %s, endpoint %s",
		len(cat.Commands), len(c.Targets()), source, c.Registry().Endpoint())))

	for _, target := range c.Targets() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, targetStyle.Render(strings.ToLower(target.Name())))
		for _, action := range target.Actions() {
			line := actionStyle.Render(action.Name) + shortDescription(action.Description)
			if action.Async {
				line += " " + asyncStyle.Render("(async)")
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}
