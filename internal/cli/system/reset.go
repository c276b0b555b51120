package system

import (
	"bufio"
	"os"
	"strings"

	"github.com/julianstephens/healthydesk/internal/cli"
)

// confirmInput is where the reset prompt reads its answer.
var confirmInput = func() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will delete every water and walking entry. Goals are kept.")
		ctx.Println("A backup of your current data will be created first.")
		ctx.Printf("Continue? [y/N]: ")

		response, err := confirmInput().ReadString('\n')
		if err != nil && response == "" {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	ctx.Entries.ResetAll()
	ctx.Println("✓ All entries deleted.")
	return nil
}
