// Package seed runs the one-time seed-data provisioning step invoked after
// first-time schema creation. It is fire-and-forget from the store's point of
// view: failures are logged by the caller, never propagated.
package seed

import (
	"context"
	"fmt"
	"os/exec"

	"pizza-store/internal/common/logger"
)

// Provisioner provisions seed data against a running service at host:port.
type Provisioner interface {
	Provision(ctx context.Context, target string) error
}

// ScriptProvisioner shells out to a configured script, passing the target as
// its single argument.
type ScriptProvisioner struct {
	Script string
	log    logger.Logger
}

// NewScriptProvisioner returns a Provisioner backed by the given script path.
func NewScriptProvisioner(script string, log logger.Logger) *ScriptProvisioner {
	return &ScriptProvisioner{Script: script, log: log}
}

func (p *ScriptProvisioner) Provision(ctx context.Context, target string) error {
	if p.Script == "" {
		return fmt.Errorf("no seed script configured")
	}

	cmd := exec.CommandContext(ctx, "bash", p.Script, target)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("seed script failed: %w: %s", err, string(out))
	}

	p.log.Info("seed script completed", map[string]interface{}{
		"script": p.Script,
		"target": target,
		"output": string(out),
	})
	return nil
}

// NoopProvisioner satisfies Provisioner without doing anything; used when
// provisioning is disabled and in tests.
type NoopProvisioner struct{}

func (NoopProvisioner) Provision(ctx context.Context, target string) error { return nil }
