package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"

	"github.com/flashworks/go-nandprog/chipdb"
	"github.com/flashworks/go-nandprog/nand"
	"github.com/flashworks/go-nandprog/nand/spinand"
	"github.com/flashworks/go-nandprog/programmer"
	"github.com/flashworks/go-nandprog/transport"
)

var serveOpts struct {
	port      string
	baud      int
	chip      uint32
	spiPort   string
	spiHz     int64
	badBlocks []string
	timeout   uint32
	verbose   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the programmer protocol on a serial port",
	Long: `Serve runs the protocol core against a simulated NAND chip, or against a
real SPI-NAND part when --spi is given. The simulated chip's geometry is
taken from the chip directory entry named by --chip; the host must select
the same entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveOpts.port, "port", "p", "/dev/ttyACM0", "serial device to serve on")
	f.IntVarP(&serveOpts.baud, "baud", "b", 115200, "serial baud rate")
	f.Uint32VarP(&serveOpts.chip, "chip", "c", 0, "chip directory index backing the simulator")
	f.StringVar(&serveOpts.spiPort, "spi", "", "SPI port of a real SPI-NAND part (disables the simulator)")
	f.Int64Var(&serveOpts.spiHz, "spi-hz", 10_000_000, "SPI clock in hertz")
	f.StringSliceVar(&serveOpts.badBlocks, "bad-block", nil, "simulated factory bad block address (repeatable)")
	f.Uint32Var(&serveOpts.timeout, "write-timeout", programmer.DefaultWriteTimeoutPolls, "busy-poll ceiling for page writes")
	f.BoolVarP(&serveOpts.verbose, "verbose", "v", false, "debug logging")
}

func runServe() error {
	if serveOpts.verbose {
		log.SetLevel(logrusDebugLevel())
	}

	driver, err := buildDriver()
	if err != nil {
		return err
	}

	t, err := transport.OpenSerial(serveOpts.port, serveOpts.baud)
	if err != nil {
		return err
	}
	defer t.Close()

	prog := programmer.New(t, driver, chipdb.Builtin(),
		programmer.WithLogger(&logrusLogger{log}),
		programmer.WithIndicators(&logIndicators{log}),
		programmer.WithWriteTimeout(serveOpts.timeout),
	)

	log.WithField("port", serveOpts.port).Info("serving")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serial peeks time out after a few milliseconds, so this loop idles at
	// the port's pace instead of spinning.
	for ctx.Err() == nil {
		prog.Tick()
	}

	log.Info("stopped")
	return nil
}

func buildDriver() (nand.Driver, error) {
	if serveOpts.spiPort != "" {
		log.WithField("spi", serveOpts.spiPort).Info("using SPI-NAND part")
		return spinand.Open(serveOpts.spiPort, physic.Frequency(serveOpts.spiHz)*physic.Hertz)
	}

	info, ok := chipdb.Builtin().Lookup(serveOpts.chip)
	if !ok {
		return nil, fmt.Errorf("chip index %d is not in the directory", serveOpts.chip)
	}

	sim := nand.NewMemSim(info.PageSize, info.BlockSize, info.Size)
	sim.SetBusyPolls(2)
	for _, s := range serveOpts.badBlocks {
		addr, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("bad --bad-block value %q: %w", s, err)
		}
		sim.MarkBad(uint32(addr))
	}

	log.WithField("chip", info.Name).Info("using simulated chip")
	return sim, nil
}
