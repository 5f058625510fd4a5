package cmd

import (
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/internal/objsvc/client"
	"github.com/msto63/plankton/internal/objsvc/server"
	coreGrpc "github.com/msto63/plankton/pkg/core/grpc"
	"github.com/msto63/plankton/pkg/core/health"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Run the service health checks",
		Long: `Status runs the checks the Objects service publishes (namespace,
expression cache and snapshot store) against the local configuration. With
--remote it asks the running service through the gRPC health protocol.
An unhealthy result exits with an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withContext(cmd)

			if a.remote != "" {
				cfg := coreGrpc.DefaultClientConfig(a.remote)
				cfg.Logger = a.logger
				c, err := client.Dial(cfg)
				if err != nil {
					return err
				}
				defer c.Close()

				status, err := c.Health(ctx)
				if err != nil {
					return err
				}
				out := objx.NewObject().
					Set("service", server.ServiceName).
					Set("target", a.remote).
					Set("status", string(status))
				if err := a.printObject(cmd, out); err != nil {
					return err
				}
				return unhealthyError(status)
			}

			svc, err := a.localService(true)
			if err != nil {
				return err
			}
			defer svc.Close()

			report := server.NewHealthRegistry(svc, svc.Store()).Check(ctx)
			if a.table {
				err = a.printRecords(cmd, []string{"name", "status", "message", "duration"}, checkRecords(report))
			} else {
				err = a.printObject(cmd, reportObject(report))
			}
			if err != nil {
				return err
			}
			return unhealthyError(report.Status)
		},
	}
}

func reportObject(report *health.Report) *objx.Object {
	checks := make([]any, 0, len(report.Checks))
	for _, c := range checkRecords(report) {
		checks = append(checks, c)
	}
	return objx.NewObject().
		Set("service", report.Service).
		Set("version", report.Version).
		Set("status", string(report.Status)).
		Set("checks", checks)
}

func checkRecords(report *health.Report) []*objx.Object {
	out := make([]*objx.Object, len(report.Checks))
	for i, c := range report.Checks {
		out[i] = objx.NewObject().
			Set("name", c.Name).
			Set("status", string(c.Status)).
			Set("message", c.Message).
			Set("duration", c.Duration.Round(time.Microsecond).String())
	}
	return out
}

func unhealthyError(status health.Status) error {
	if status == health.StatusUnhealthy {
		return mdwerror.New("objects service is unhealthy").
			WithCode(mdwerror.CodeServiceUnavailable)
	}
	return nil
}
