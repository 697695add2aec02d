package kernels

import "github.com/cwbudde/clbench/internal/accel"

// HostKernels returns the Go renditions of every variant's entry point, for
// the host driver. Both share the name vadd and differ by parameter list.
// Each links only against its embedded source's body.
func HostKernels() []accel.HostKernel {
	return []accel.HostKernel{
		{
			Name:   EntryPoint,
			Params: []accel.ParamKind{accel.ParamIntBuffer, accel.ParamIntBuffer, accel.ParamIntBuffer},
			Source: intSource,
			Bind: func(args []accel.HostArg) func(int) {
				a := accel.View[int32](args[0].Mem)
				b := accel.View[int32](args[1].Mem)
				c := accel.View[int32](args[2].Mem)
				return func(i int) {
					c[i] = AddInt32(a[i], b[i])
				}
			},
		},
		{
			Name:   EntryPoint,
			Params: []accel.ParamKind{accel.ParamFloat, accel.ParamFloatBuffer, accel.ParamFloatBuffer, accel.ParamFloatBuffer},
			Source: floatSource,
			Bind: func(args []accel.HostArg) func(int) {
				op := ScaledProduct(args[0].Scalar.(float32))
				x := accel.View[float32](args[1].Mem)
				y := accel.View[float32](args[2].Mem)
				out := accel.View[float32](args[3].Mem)
				return func(i int) {
					out[i] = op(x[i], y[i])
				}
			},
		},
	}
}
