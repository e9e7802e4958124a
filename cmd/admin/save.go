package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/infra/persistence/codec"
	"Dawnforge/internal/settlement/infra/persistence/sqlite"
	"Dawnforge/internal/shared/config"
	sqliteinfra "Dawnforge/internal/shared/infrastructure/sqlite"
)

func newSaveCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Inspect saves in a sqlite save store",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "data/dawnforge.sqlite", "sqlite save store path")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepo(dbPath, func(repo app.SaveRepository) error {
				list, err := repo.List(cmd.Context())
				if err != nil {
					return err
				}
				printSaves(cmd.OutOrStdout(), list)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a save's resources, buildings and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(dbPath, func(repo app.SaveRepository) error {
				st, err := repo.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSave(cmd.OutOrStdout(), st)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a save; the server must not have it loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(dbPath, func(repo app.SaveRepository) error {
				if err := repo.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ deleted %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func withRepo(path string, fn func(app.SaveRepository) error) error {
	db, err := sqliteinfra.Open(config.SQLiteConfig{Path: path})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()
	// 读档时按魔数识别压缩，这里的开关只影响写入
	repo, err := sqlite.NewSaveRepo(db, codec.New(false))
	if err != nil {
		return err
	}
	return fn(repo)
}

func printSaves(out io.Writer, list []app.SaveSummary) {
	if len(list) == 0 {
		fmt.Fprintln(out, "no saves")
		return
	}
	t := tablewriter.NewTable(out, tablewriter.WithHeader([]string{"Name", "Era", "Version", "Updated", "Size"}))
	for _, s := range list {
		_ = t.Append([]string{
			s.Name,
			s.Era,
			humanize.Comma(int64(s.Version)),
			humanize.Time(time.UnixMilli(s.UpdatedAt)),
			humanize.Bytes(uint64(s.Size)),
		})
	}
	_ = t.Render()
}

func printSave(out io.Writer, st *entity.Settlement) {
	s := st.State()
	titleColor.Fprintf(out, "\n%s\n", st.Name())
	fmt.Fprintf(out, "  era:        %s\n", s.Era)
	fmt.Fprintf(out, "  version:    %d\n", st.Version())
	fmt.Fprintf(out, "  updated:    %s\n", humanize.Time(time.UnixMilli(st.UpdatedAt())))
	fmt.Fprintf(out, "  population: %d (%d villagers, %d military)\n", s.Population(), len(s.Villagers), len(s.Military))
	fmt.Fprintf(out, "  research:   %d completed\n", len(s.CompletedResearch))

	t := tablewriter.NewTable(out, tablewriter.WithHeader([]string{"Resource", "Amount"}))
	for _, k := range s.Resources.Kinds() {
		_ = t.Append([]string{string(k), humanize.Comma(int64(s.Resources[k]))})
	}
	_ = t.Render()

	if len(s.Tasks) == 0 {
		return
	}
	t = tablewriter.NewTable(out, tablewriter.WithHeader([]string{"Task", "Kind", "Started", "Duration"}))
	for _, tk := range s.Tasks {
		_ = t.Append([]string{tk.ID, string(tk.Kind), humanize.Time(time.UnixMilli(tk.StartTime)), (time.Duration(tk.Duration) * time.Millisecond).String()})
	}
	_ = t.Render()
}
