package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/foodsurvey/internal/export"
	"github.com/sadopc/foodsurvey/internal/store"
)

var (
	exportFormat string
	exportOutput string
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var configsCmd = &cobra.Command{
	Use:     "configs",
	Aliases: []string{"surveys"},
	Short:   "Manage saved surveys",
}

var configsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved surveys",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := st.ListConfigurations()
		if err != nil {
			return err
		}
		sess, err := st.ActiveSession()
		if err != nil {
			return err
		}
		activeID := ""
		if sess != nil {
			activeID = sess.ConfigID
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d survey(s)", len(configs))))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Foods")+"\t"+
			titleStyle.Render("Used")+"\t"+titleStyle.Render("Last used")+"\t")

		now := time.Now()
		for _, c := range configs {
			name := c.Name
			if c.IsDefault {
				name += " (default)"
			}
			if c.ID == activeID {
				name += " ●"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				idStyle.Render(c.ID), name,
				countStyle.Render(humanize.Comma(int64(c.FoodCount()))),
				countStyle.Render(humanize.Comma(int64(c.TimesUsed))),
				dateStyle.Render(lastUsed(c, now)),
			)
		}
		return w.Flush()
	},
}

var configsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one survey and its foods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := st.GetConfiguration(args[0])
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(c.Name))
		fmt.Println(dateStyle.Render(fmt.Sprintf("id %s · created %s · used %d time(s) · last used %s",
			c.ID, c.CreatedDate, c.TimesUsed, lastUsed(*c, time.Now()))))
		fmt.Println()
		for i, f := range store.FoodsForConfiguration(c) {
			kind := ""
			if f.IsCustom {
				kind = idStyle.Render(" custom")
			}
			fmt.Printf("  %2d. %s%s\n", i+1, f.Label(), kind)
		}
		return nil
	},
}

var configsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a survey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := st.DeleteConfiguration(args[0])
		if errors.Is(err, store.ErrProtectedConfiguration) {
			return errors.New("the default survey cannot be deleted")
		}
		if err != nil {
			return err
		}

		if sess, err := st.ActiveSession(); err == nil && sess != nil && sess.ConfigID == args[0] {
			if err := st.EndSession(); err != nil {
				return err
			}
			fmt.Println(dateStyle.Render("Ended the session that was using it."))
		}
		fmt.Println(countStyle.Render("Deleted " + args[0]))
		return nil
	},
}

var configsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export surveys to CSV, JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}
		configs, err := st.ListConfigurations()
		if err != nil {
			return err
		}

		if exportOutput == "-" {
			return e.Export(configs, os.Stdout)
		}
		path := exportOutput
		if path == "" {
			path = export.Filename(e, time.Now())
		} else if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, export.Filename(e, time.Now()))
		}
		if err := export.WriteFile(e, configs, path); err != nil {
			return err
		}
		fmt.Println(countStyle.Render(fmt.Sprintf("Exported %d survey(s) to %s", len(configs), path)))
		return nil
	},
}

func lastUsed(c store.Configuration, now time.Time) string {
	if c.TimesUsed == 0 {
		return "never"
	}
	t := c.LastUsedTime()
	if t.IsZero() {
		return "never"
	}
	if c.LastUsed == now.UTC().Format(store.DateLayout) {
		return "today"
	}
	return humanize.Time(t)
}

func init() {
	configsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv",
		"export format ("+strings.Join(export.Formats, ", ")+")")
	configsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file or directory, - for stdout")

	configsCmd.AddCommand(configsListCmd, configsShowCmd, configsDeleteCmd, configsExportCmd)
	rootCmd.AddCommand(configsCmd)
}
