package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	transports "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmd/client/transports"
	tcpserver "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/server/tcp"
)

func commandTransport(cmd *cobra.Command, addr AddrFunc) transports.CommandTransport {
	a, _ := cmd.Flags().GetString("addr")
	if a == "" {
		a = addr()
	}
	t := transports.NewTCPTransport(a)
	if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
		t.Timeout = d
	}
	return t
}

func addCommandFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "Command port address (default $AESD_ADDR or 127.0.0.1:9000)")
	cmd.Flags().Duration("timeout", 10*time.Second, "Exchange timeout")
}

// NewSendCommand constructs the `send` command: append one command and print
// the replayed log.
func NewSendCommand(addr AddrFunc) *cobra.Command {
	sendCmd := &cobra.Command{
		Use:   "send [text]",
		Short: "Append a command and print the full log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _ := cmd.Flags().GetString("data")
			if len(args) == 1 {
				data = args[0]
			}
			if data == "" {
				return fmt.Errorf("nothing to send; pass --data or an argument")
			}
			if !strings.HasSuffix(data, "\n") {
				data += "\n"
			}
			out, err := commandTransport(cmd, addr).Exchange(cmd.Context(), []byte(data))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	sendCmd.Flags().String("data", "", "Command text; a trailing newline is added when missing")
	addCommandFlags(sendCmd)
	return sendCmd
}

// NewSeekToCommand constructs the `seekto` command: send the in-band seek
// control and print the content from that position.
func NewSeekToCommand(addr AddrFunc) *cobra.Command {
	seekCmd := &cobra.Command{
		Use:   "seekto",
		Short: "Print the log from byte --offset of command --cmd",
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, _ := cmd.Flags().GetInt64("cmd")
			y, _ := cmd.Flags().GetInt64("offset")
			if x < 0 || y < 0 {
				return fmt.Errorf("--cmd and --offset must be non-negative")
			}
			out, err := commandTransport(cmd, addr).Exchange(cmd.Context(), tcpserver.SeekToCommand(x, y))
			if err != nil {
				return err
			}
			if len(out) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no data: position not addressable")
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	seekCmd.Flags().Int64("cmd", 0, "Zero-based command index among retained commands")
	seekCmd.Flags().Int64("offset", 0, "Byte offset within that command")
	addCommandFlags(seekCmd)
	return seekCmd
}
