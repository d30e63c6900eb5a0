package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/foodsurvey/internal/survey"
	"github.com/sadopc/foodsurvey/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the kiosk (default)",
	Long: `Start the full-screen kiosk. A session left running by a previous
launch is resumed and the kiosk opens locked on the survey.`,
	RunE: runKiosk,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runKiosk(cmd *cobra.Command, args []string) error {
	sc := survey.NewContext(st, logger.Named("survey"))
	if err := sc.Resume(); err != nil {
		return err
	}

	app := tui.NewApp(sc, tui.Options{
		Remote:       newRemote(),
		Gate:         survey.NewAdminGate(cfg.AdminPassword),
		DatabasePath: cfg.DatabasePath,
		LogFile:      cfg.LogFile,
		Logger:       logger.Named("tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run kiosk: %w", err)
	}
	return nil
}
