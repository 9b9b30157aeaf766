package app

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/driverkeep/internal/backup"
	"github.com/blackwell-systems/driverkeep/internal/output"
	"github.com/blackwell-systems/driverkeep/internal/pnp"
)

var (
	listDevices bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Preview the driver package plan without exporting",
		Long: `Discover installed third-party drivers and show the packages a backup
would export, with the exact folder names a live run would use.

The preview runs the same grouping and naming pipeline as 'driverkeep
backup', so the folders shown here are the folders a backup produces.
Nothing is written and elevation is not required.`,
		Example: `  # Show the package plan
  driverkeep list

  # Also show every discovered device record
  driverkeep list --devices`,
		RunE: runList,
	}
)

func init() {
	listCmd.Flags().BoolVar(&listDevices, "devices", false, "also list every device record")

	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd())

	// A dry-run session resolves names and outcomes without touching disk.
	session, records, err := planSession("", time.Now(), true, isTTY)
	if err != nil {
		return err
	}

	if listDevices {
		fmt.Print(output.RenderDriverTable(records))
		fmt.Println()
	}

	orch := backup.NewOrchestrator(pnp.NewPnputilExporter())
	orch.Run(session)

	fmt.Print(output.RenderPlanTable(session.Results))
	fmt.Println()
	fmt.Printf("%d driver packages across %d classes (%d device records, %d excluded OS-vendor, %d rejected)\n",
		session.Counters.Packages, len(session.Buckets),
		session.Counters.RecordsSeen, session.Counters.RecordsExcluded, session.Counters.RecordsRejected)

	return nil
}
