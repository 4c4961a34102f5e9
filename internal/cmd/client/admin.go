package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	transports "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmd/client/transports"
	grpcserver "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/server/grpc"
)

func httpTransport(cmd *cobra.Command, baseURL AddrFunc) *transports.HTTPTransport {
	u, _ := cmd.Flags().GetString("http")
	if u == "" {
		u = baseURL()
	}
	return transports.NewHTTPTransport(u)
}

// NewLogCommand constructs the `log` command backed by GET /v1/log.
func NewLogCommand(baseURL AddrFunc) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Print retained content via the admin API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			off, _ := cmd.Flags().GetInt64("offset")
			wait, _ := cmd.Flags().GetDuration("wait")
			out, err := httpTransport(cmd, baseURL).Log(cmd.Context(), off, wait)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	logCmd.Flags().String("http", "", "Admin API base URL (default $AESD_HTTP or http://127.0.0.1:8080)")
	logCmd.Flags().Int64("offset", 0, "Global byte offset to start from")
	logCmd.Flags().Duration("wait", 0, "Wait up to this long for new data when --offset is at the end")
	return logCmd
}

// NewStatsCommand constructs the `stats` command backed by GET /v1/stats.
func NewStatsCommand(baseURL AddrFunc) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print log and connection statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := httpTransport(cmd, baseURL).Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
	statsCmd.Flags().String("http", "", "Admin API base URL (default $AESD_HTTP or http://127.0.0.1:8080)")
	return statsCmd
}

// NewHealthCommand constructs the `health` command backed by grpc.health.v1.
func NewHealthCommand(grpcAddr AddrFunc) *cobra.Command {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Query the gRPC health service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("grpc")
			if addr == "" {
				addr = grpcAddr()
			}
			service, _ := cmd.Flags().GetString("service")
			status, err := transports.NewGrpcTransport(grpcDialer(addr)).Health(cmd.Context(), service)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
	healthCmd.Flags().String("grpc", "", "gRPC address (default $AESD_GRPC or 127.0.0.1:50051)")
	healthCmd.Flags().String("service", grpcserver.ServiceName, "Service name; empty checks the whole server")
	return healthCmd
}
