package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/hcp/pkg/config"
	"github.com/vertti/hcp/pkg/healthcheck"
	"github.com/vertti/hcp/pkg/lifecycle"
	"github.com/vertti/hcp/pkg/output"
	"github.com/vertti/hcp/pkg/supervisor"
	"github.com/vertti/hcp/pkg/version"
)

var (
	hcpID         string
	hcpURL        string
	hcpConfig     string
	hcpTee        bool
	hcpIgnoreCode bool
)

// retryDelay is the pause before retrying a failed ping.
var retryDelay = healthcheck.DefaultRetryDelay

func init() {
	flags := rootCmd.Flags()
	// Everything from the first positional argument on belongs to the command.
	flags.SetInterspersed(false)

	flags.StringVar(&hcpID, "hcp-id", "", "healthcheck id (env HCP_ID)")
	flags.StringVar(&hcpURL, "hcp-url", "", "ping base url (env HCP_URL, default "+config.DefaultBaseURL+")")
	flags.StringVar(&hcpConfig, "hcp-config", "", "path to a YAML config file (env HCP_CONFIG)")
	flags.BoolVar(&hcpTee, "hcp-tee", false, "also print command output locally (env HCP_TEE)")
	flags.BoolVar(&hcpIgnoreCode, "hcp-ignore-code", false, "report success whatever the command's exit code (env HCP_IGNORE_CODE)")
}

func runHCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Flags{
		ID:            hcpID,
		URL:           hcpURL,
		ConfigPath:    hcpConfig,
		Tee:           hcpTee,
		TeeSet:        cmd.Flags().Changed("hcp-tee"),
		IgnoreCode:    hcpIgnoreCode,
		IgnoreCodeSet: cmd.Flags().Changed("hcp-ignore-code"),
	}, &config.RealEnvGetter{}, args)
	if err != nil {
		return err
	}

	out := &output.Printer{W: cmd.ErrOrStderr()}

	client := healthcheck.New(cfg.BaseURL, cfg.ID.String(), version.UserAgent(Version))
	client.RetryDelay = retryDelay
	client.Out = out

	// Termination signals belong to the child from here until hcp exits,
	// including while the start and finish pings are in flight.
	relay := supervisor.NewRelay()
	defer relay.Close()

	sup := &supervisor.Supervisor{
		Tee:    cfg.Tee,
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Relay:  relay,
	}

	o := &lifecycle.Orchestrator{
		Config:   cfg,
		Reporter: client,
		Spawner:  lifecycle.SupervisorSpawner{Supervisor: sup},
		Out:      out,
	}
	exitCode = o.Run().Code()
	return nil
}
