// cmd/workdesk/healthcheck.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/gurkanbulca/workdesk/internal/health"
)

func healthcheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Query a running server's gRPC health service",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("connect to %s: %w", addr, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{
				Service: health.ServiceName,
			})
			if err != nil {
				return fmt.Errorf("health check: %w", err)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				out, err := protojson.Marshal(resp)
				if err != nil {
					return fmt.Errorf("encode response: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), resp.GetStatus())
			}
			if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
				return fmt.Errorf("server is %s", resp.GetStatus())
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "localhost:50051", "gRPC address of the server")
	cmd.Flags().Duration("timeout", 5*time.Second, "How long to wait for an answer")
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	return cmd
}
