package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cookaihq/cookai/internal/svc"
)

// RemindCmd runs a single meal reminder sweep and exits. Useful for
// driving reminders from an external scheduler instead of the built-in
// cron.
func RemindCmd() *cobra.Command {
	var utcMinutes int

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run one meal reminder sweep and exit",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			svcCtx, err := svc.NewServiceContext(ctx, *ServerConfig)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer svcCtx.Close()

			var override *int
			if cmd.Flags().Changed("utc-minutes") {
				override = &utcMinutes
			}
			res, err := svcCtx.Reminder.Run(ctx, override)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Reminders: sent=%d errors=%d skipped=%d\n", res.Sent, res.Errors, res.Skipped)
		},
	}
	cmd.Flags().IntVar(&utcMinutes, "utc-minutes", 0, "override the current UTC time as minutes since midnight")
	return cmd
}
