package cmd

import (
	"github.com/spf13/cobra"
)

// PublishCommand groups the publication targets.
func PublishCommand() *cobra.Command {
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publishes SQLite databases to a hosting provider",
	}
	publishCmd.AddCommand(PublishCloudrunCommand())
	return publishCmd
}
