package system

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/export"
	"github.com/julianstephens/healthydesk/internal/utils"
)

type ExportCmd struct {
	Format string `help:"Output format (csv or json)." default:"csv" enum:"csv,json"`
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Stdout()
	if c.Output != "" {
		f, err := os.OpenFile(utils.ExpandHome(c.Output), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	snap := ctx.Entries.Snapshot()
	if err := export.Write(w, format, snap, ctx.Location); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if c.Output != "" {
		ctx.Printf("✓ Exported %d entries to %s\n", len(snap.Water)+len(snap.Walking), c.Output)
	}
	return nil
}
