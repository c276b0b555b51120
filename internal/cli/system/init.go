package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/config"
)

type InitCmd struct {
	Force bool `help:"Delete any existing data file before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dataPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dataPath); err == nil {
			// Close first to release the file handle
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing data file: %w", err)
			}
			if err := os.Remove(dataPath); err != nil {
				return fmt.Errorf("failed to delete existing data file: %w", err)
			}
			ctx.Printf("Deleted existing data file at: %s\n", dataPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing data file: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized healthydesk storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
		cfg := ctx.Config
		if cfg == nil {
			cfg = config.Default()
		}
		if err := config.Save(ctx.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ctx.Printf("Wrote default config to: %s\n", ctx.ConfigPath)
	}
	return nil
}
