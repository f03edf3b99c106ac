// Command nandemu serves the NAND programmer protocol as a device-side
// emulator, so host software can be exercised against a simulated chip or a
// real SPI-NAND part without the original hardware.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flashworks/go-nandprog/chipdb"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:           "nandemu",
	Short:         "NAND programmer device emulator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var chipsCmd = &cobra.Command{
	Use:   "chips",
	Short: "List the chip directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tNAME\tPAGE\tBLOCK\tSIZE")
		for i, c := range chipdb.Builtin().List() {
			fmt.Fprintf(w, "%d\t%s\t%d\t0x%X\t0x%X\n", i, c.Name, c.PageSize, c.BlockSize, c.Size)
		}
		return w.Flush()
	},
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.AddCommand(chipsCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
