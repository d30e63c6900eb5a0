package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/foodsurvey/internal/remotelog"
)

var pushConcurrency int

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Re-send every saved survey to the spreadsheet",
	Long: `Log a snapshot of every saved survey to the remote endpoint, as happens
when a survey is started from the kiosk. Useful after the endpoint changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote := newRemote()
		if !remote.Configured() {
			return remotelog.ErrNotConfigured
		}
		configs, err := st.ListConfigurations()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		errs := make([]error, len(configs))
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(max(pushConcurrency, 1))
		for i, c := range configs {
			i, c := i, c
			g.Go(func() error {
				errs[i] = remote.LogConfiguration(ctx, c)
				return nil
			})
		}
		g.Wait()

		failed := 0
		for i, c := range configs {
			if errs[i] != nil {
				failed++
				logger.Warn("push failed", zap.String("config_id", c.ID), zap.Error(errs[i]))
				fmt.Println(errStyle.Render(fmt.Sprintf("✗ %s: %v", c.Name, errs[i])))
				continue
			}
			fmt.Println(countStyle.Render("✓ " + c.Name))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d survey(s) not sent: %w", failed, len(configs), errors.Join(errs...))
		}
		return nil
	},
}

func init() {
	pushCmd.Flags().IntVar(&pushConcurrency, "concurrency", 2, "requests in flight at once")
	rootCmd.AddCommand(pushCmd)
}
