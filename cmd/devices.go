package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/bench"
)

var (
	devicesBackend string
	devicesFilter  string
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List every platform and device of a backend",
	Args:  cobra.NoArgs,
	RunE:  listDevices,
}

func init() {
	devicesCmd.Flags().StringVar(&devicesBackend, "backend", string(accel.BackendHost), "Driver backend ("+accel.BackendList()+")")
	devicesCmd.Flags().StringVar(&devicesFilter, "device", string(accel.FilterAll), "Device filter (all, cpu, gpu)")
	rootCmd.AddCommand(devicesCmd)
}

func listDevices(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reporter := bench.NewConsoleReporter(out)

	filter, err := accel.ParseDeviceFilter(devicesFilter)
	if err != nil {
		return err
	}
	drv, err := bench.OpenDriver(accel.Backend(devicesBackend))
	if err != nil {
		return err
	}
	defer drv.Close()

	catalog := bench.NewCatalog(drv, reporter, logger)
	platforms, err := catalog.Platforms()
	if err != nil {
		return err
	}
	reporter.Platforms(len(platforms))

	for _, p := range platforms {
		info := p.Info()
		fmt.Fprintf(out, "Platform: %s (%s, %s)\n", info.Name, info.Vendor, info.Version)
		devices, err := catalog.Devices(p, filter)
		if err != nil {
			logger.Warn("Platform skipped", "platform", info.Name, "err", err)
			continue
		}
		reporter.Devices(len(devices))
		for _, d := range devices {
			reporter.Device(d.Info())
		}
	}
	return nil
}
