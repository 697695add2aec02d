package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/bench"
	"github.com/cwbudde/clbench/internal/kernels"
)

// benchFlags are the settings shared by every command that runs kernels.
type benchFlags struct {
	vectorSize  int
	kernelPath  string
	device      string
	variant     string
	coefficient float32
	backend     string
}

func (f *benchFlags) register(cmd *cobra.Command) {
	def := bench.DefaultConfig()
	fs := cmd.Flags()
	fs.IntVarP(&f.vectorSize, "vector-size", "n", def.VectorSize, "Number of elements per vector")
	fs.StringVar(&f.kernelPath, "kernel", "", "Kernel source file (default: embedded source of --variant)")
	fs.StringVar(&f.device, "device", string(def.DeviceFilter), "Device filter (all, cpu, gpu)")
	fs.StringVar(&f.variant, "variant", string(def.Variant), "Kernel variant (int, float)")
	fs.Float32Var(&f.coefficient, "coefficient", def.Coefficient, "Scalar of the float variant")
	fs.StringVar(&f.backend, "backend", string(def.Backend), "Driver backend ("+accel.BackendList()+")")
}

// apply copies the flags the user set onto cfg, so that unset flags keep
// the value from the config file.
func (f *benchFlags) apply(cmd *cobra.Command, cfg *bench.Config) {
	fs := cmd.Flags()
	if fs.Changed("vector-size") {
		cfg.VectorSize = f.vectorSize
	}
	if fs.Changed("kernel") {
		cfg.KernelSourcePath = f.kernelPath
	}
	if fs.Changed("device") {
		cfg.DeviceFilter = accel.DeviceFilter(f.device)
	}
	if fs.Changed("variant") {
		cfg.Variant = kernels.Variant(f.variant)
	}
	if fs.Changed("coefficient") {
		cfg.Coefficient = f.coefficient
	}
	if fs.Changed("backend") {
		cfg.Backend = accel.Backend(f.backend)
	}
}
