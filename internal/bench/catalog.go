package bench

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/clbench/internal/accel"
)

// Catalog enumerates the platforms and devices of a driver and selects the
// device a run uses.
type Catalog struct {
	driver   accel.Driver
	reporter Reporter
	logger   *slog.Logger
}

// NewCatalog returns a catalog over driver. Device capability listings go to
// reporter.
func NewCatalog(driver accel.Driver, reporter Reporter, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{driver: driver, reporter: reporter, logger: logger}
}

// Platforms lists the driver's platforms. An empty list is an
// EnvironmentError.
func (c *Catalog) Platforms() ([]accel.Platform, error) {
	platforms, err := c.driver.Platforms()
	if err != nil {
		return nil, newError(EnvironmentError, "list platforms", err)
	}
	if len(platforms) == 0 {
		return nil, newError(EnvironmentError, "list platforms", ErrNoPlatformAvailable)
	}
	return platforms, nil
}

// Devices lists the devices of platform passing filter. An empty list is an
// EnvironmentError.
func (c *Catalog) Devices(platform accel.Platform, filter accel.DeviceFilter) ([]accel.Device, error) {
	if filter == "" {
		filter = accel.FilterAll
	}
	devices, err := platform.Devices(filter)
	if err != nil {
		return nil, newError(EnvironmentError, "list devices", err)
	}
	if len(devices) == 0 {
		return nil, newError(EnvironmentError, "list devices",
			fmt.Errorf("%w on platform %q with filter %s", ErrNoDeviceAvailable, platform.Info().Name, filter))
	}
	return devices, nil
}

// Select picks the first device of the first platform, reporting the
// capabilities of every device found on that platform. The choice is not
// capability-aware.
func (c *Catalog) Select(filter accel.DeviceFilter) (accel.Device, error) {
	platforms, err := c.Platforms()
	if err != nil {
		return nil, err
	}
	c.reporter.Platforms(len(platforms))

	platform := platforms[0]
	devices, err := c.Devices(platform, filter)
	if err != nil {
		return nil, err
	}
	c.reporter.Devices(len(devices))

	for _, d := range devices {
		c.reporter.Device(d.Info())
	}

	chosen := devices[0]
	c.logger.Info("Device selected",
		"platform", platform.Info().Name,
		"device", chosen.Info().Name,
		"type", chosen.Info().Type,
		"compute_units", chosen.Info().MaxComputeUnits,
	)
	return chosen, nil
}
