package cli

import (
	"context"
	"fmt"

	"github.com/cruciblehq/shipwright/internal/install"
	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
)

// Represents the 'shipwright install' command.
type InstallCmd struct {
	System bool   `help:"Install system-wide instead of for the current user."`
	Path   string `help:"Install into an explicit directory." placeholder:"DIR"`
	Source string `help:"Install an explicit binary instead of the build output." placeholder:"FILE"`
}

func (c *InstallCmd) Run(ctx context.Context) error {
	m, err := manifest.Load(RootCmd.Manifest)
	if err != nil {
		return couldNotStart(err)
	}

	dest, err := install.Install(ctx, m, &proc.Runner{}, install.Options{
		System: c.System,
		Path:   c.Path,
		Source: c.Source,
	})
	if err != nil {
		return err
	}

	fmt.Printf("installed %s\n", dest)
	return nil
}

// Represents the 'shipwright uninstall' command.
type UninstallCmd struct {
	System bool   `help:"Uninstall the system-wide copy."`
	Path   string `help:"Uninstall from an explicit directory." placeholder:"DIR"`
}

func (c *UninstallCmd) Run(ctx context.Context) error {
	m, err := manifest.Load(RootCmd.Manifest)
	if err != nil {
		return couldNotStart(err)
	}

	dest, err := install.Uninstall(m, install.Options{System: c.System, Path: c.Path})
	if err != nil {
		return err
	}

	fmt.Printf("removed %s\n", dest)
	return nil
}
