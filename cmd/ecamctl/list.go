package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"tinygo.org/x/bluetooth"

	"github.com/barista-systems/ecamctl/internal/transport"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Scan for the first advertising device and print name + id",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("ecamctl: enable bluetooth adapter: %w", err)
	}
	driver := transport.NewBLE(adapter)

	name, id, err := driver.Scan(ctx)
	if err != nil {
		return fmt.Errorf("ecamctl: scan: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, id)
	return nil
}
