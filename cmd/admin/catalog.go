package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"Dawnforge/internal/shared/gameconfig"
)

func newCatalogCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect game catalogs",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "catalog directory (defaults to the bundled data)")

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate catalog files against their schemas and cross references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalogs(dir)
			if err != nil {
				return fmt.Errorf("catalog invalid: %w", err)
			}
			out := cmd.OutOrStdout()
			successColor.Fprintln(out, "✓ catalogs valid")
			fmt.Fprintf(out, "  digest:    %s\n", c.Digest())
			fmt.Fprintf(out, "  ages:      %d\n", len(c.Ages()))
			fmt.Fprintf(out, "  buildings: %d\n", len(c.Buildings()))
			fmt.Fprintf(out, "  units:     %d\n", len(c.Units()))
			fmt.Fprintf(out, "  research:  %d\n", len(c.ResearchList()))
			fmt.Fprintf(out, "  items:     %d\n", len(c.Items()))
			fmt.Fprintf(out, "  events:    %d\n", len(c.Events()))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print buildings, units and research as tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalogs(dir)
			if err != nil {
				return err
			}
			printCatalogs(cmd.OutOrStdout(), c)
			return nil
		},
	})
	return cmd
}

func loadCatalogs(dir string) (*gameconfig.Catalogs, error) {
	if dir == "" {
		dir = gameconfig.DefaultDir()
	}
	return gameconfig.Load(dir)
}

func printCatalogs(out io.Writer, c *gameconfig.Catalogs) {
	titleColor.Fprintln(out, "\nBuildings")
	t := tablewriter.NewTable(out, tablewriter.WithHeader([]string{"ID", "Name", "Age", "Cost", "Time", "Housing", "Unique"}))
	for _, b := range c.Buildings() {
		_ = t.Append([]string{b.ID, b.Name, orDash(b.Age), formatCost(b.Cost), seconds(b.BuildTime), fmt.Sprintf("%d", b.Housing), yesNo(b.Unique)})
	}
	_ = t.Render()

	titleColor.Fprintln(out, "\nUnits")
	t = tablewriter.NewTable(out, tablewriter.WithHeader([]string{"ID", "Name", "Kind", "Age", "Cost", "Time", "Pop"}))
	for _, u := range c.Units() {
		_ = t.Append([]string{u.ID, u.Name, string(u.Kind), orDash(u.Age), formatCost(u.Cost), seconds(u.TrainTime), fmt.Sprintf("%d", u.PopulationCost)})
	}
	_ = t.Render()

	titleColor.Fprintln(out, "\nResearch")
	t = tablewriter.NewTable(out, tablewriter.WithHeader([]string{"ID", "Name", "Age", "Cost", "Time", "Requires"}))
	for _, r := range c.ResearchList() {
		_ = t.Append([]string{r.ID, r.Name, orDash(r.Age), formatCost(r.Cost), seconds(r.ResearchTime), requires(r)})
	}
	_ = t.Render()
}

func formatCost(cost gameconfig.Cost) string {
	if len(cost) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cost))
	for _, k := range cost.Kinds() {
		parts = append(parts, fmt.Sprintf("%s %d", k, cost[k]))
	}
	return strings.Join(parts, ", ")
}

func requires(r gameconfig.ResearchDef) string {
	all := make([]string, 0, len(r.RequiredBuildings)+len(r.RequiredResearch))
	all = append(all, r.RequiredBuildings...)
	all = append(all, r.RequiredResearch...)
	return orDash(strings.Join(all, ", "))
}

func seconds(n int) string {
	return fmt.Sprintf("%ds", n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
