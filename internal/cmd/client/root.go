package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the aesdsocket client.
// It registers the protocol and admin commands.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "aesdsocket",
		Short: "aesdsocket client commands",
	}
	root.AddCommand(
		NewSendCommand(CommandAddrFromEnv),
		NewSeekToCommand(CommandAddrFromEnv),
		NewLogCommand(HTTPBaseFromEnv),
		NewStatsCommand(HTTPBaseFromEnv),
		NewHealthCommand(GRPCAddrFromEnv),
	)
	return root
}
