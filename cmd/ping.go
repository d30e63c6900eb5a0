package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a test payload to the endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		remote := newRemote()
		rc := remote.Config()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := remote.Ping(ctx); err != nil {
			return err
		}

		if rc.WriteOnly {
			fmt.Println(countStyle.Render("Sent test payload to " + rc.Endpoint))
			fmt.Println(dateStyle.Render("write-only mode: the response was not inspected"))
			return nil
		}
		fmt.Println(countStyle.Render("Endpoint accepted the test payload: " + rc.Endpoint))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
