package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/countledger/countledger/client"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Record and query audit events",
	}
	cmd.AddCommand(auditSendCmd())
	cmd.AddCommand(auditTrailCmd())
	cmd.AddCommand(auditPurgeCmd())
	return cmd
}

func auditSendCmd() *cobra.Command {
	var (
		kind     string
		event    client.Event
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "send",
		Args:  cobra.NoArgs,
		Short: "Ship a single audit event",
		RunE: func(cmd *cobra.Command, args []string) error {
			event.Kind = client.EventKind(kind)
			event.Quantity = quantity

			shipper := client.NewShipper(apiClient, cliLogger())
			if !shipper.Ship(context.Background(), event) {
				return fmt.Errorf("event not delivered (are you logged in?)")
			}
			output(map[string]string{"status": "delivered"}, "delivered")
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(client.EventScan), "Event kind: scan|auth|count_action|config_change")
	cmd.Flags().StringVar(&event.SKU, "sku", "", "Item SKU")
	cmd.Flags().IntVar(&quantity, "qty", 0, "Quantity counted")
	cmd.Flags().StringVar(&event.Location, "location", "", "Location code")
	cmd.Flags().StringVar(&event.Source, "source", "", "Event source")
	return cmd
}

func auditTrailCmd() *cobra.Command {
	var (
		action, sku, from, to string
		location              string
		page                  int
	)

	cmd := &cobra.Command{
		Use:   "trail",
		Args:  cobra.NoArgs,
		Short: "Show the recent audit trail, filtered and paged",
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer := client.NewTrailViewer(apiClient, client.WithTimeZone(time.Local))
			if err := viewer.Refresh(context.Background(), location); err != nil {
				return err
			}

			filter := client.TrailFilter{Action: action, SKU: sku}
			if from != "" {
				t, err := time.ParseInLocation("2006-01-02", from, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				filter.Start = t
			}
			if to != "" {
				t, err := time.ParseInLocation("2006-01-02", to, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				filter.End = t
			}
			viewer.SetFilter(filter)
			viewer.SetPage(page)

			entries := viewer.Page()
			if flagFmt == "table" {
				headers := []string{"TIME", "CATEGORY", "DETAILS", "USER"}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Event.Timestamp.Local().Format("2006-01-02 15:04:05"),
						e.Category,
						e.Details,
						e.Event.UserName,
					})
				}
				formatTable(headers, rows)
				fmt.Printf("\nPage %d of %d\n", viewer.CurrentPage(), viewer.PageCount())
				return nil
			}

			output(map[string]any{
				"entries": entries,
				"page":    viewer.CurrentPage(),
				"pages":   viewer.PageCount(),
			}, strconv.Itoa(len(entries)))
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Filter by category substring")
	cmd.Flags().StringVar(&sku, "sku", "", "Filter by SKU substring")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&location, "location", "", "Server-side location filter")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func auditPurgeCmd() *cobra.Command {
	var retentionDays int
	cmd := &cobra.Command{
		Use:   "purge",
		Args:  cobra.NoArgs,
		Short: "Purge audit events older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := apiClient.Audit.Purge(context.Background(), retentionDays)
			if err != nil {
				return err
			}
			output(map[string]int{"deleted": deleted}, strconv.Itoa(deleted))
			return nil
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 90, "Delete events older than N days")
	return cmd
}
