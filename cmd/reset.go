package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase every survey, the custom food history, the session and the respondent counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to erase local data without --yes")
		}
		entries, err := st.Entries()
		if err != nil {
			return err
		}
		if err := st.ClearAll(); err != nil {
			return err
		}
		if err := st.Initialize(); err != nil {
			return err
		}
		fmt.Println(countStyle.Render(fmt.Sprintf("Cleared %d record(s); the default survey was restored.", len(entries))))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm erasing local data")
	rootCmd.AddCommand(resetCmd)
}
