package accel

import (
	"strings"
	"testing"
)

const subSource = `__kernel void sub(__global const int *a, __global const int *b, __global int *c) {
    const int i = get_global_id(0);
    c[i] = a[i] - b[i];
}`

func TestHostCompile(t *testing.T) {
	registry := []HostKernel{
		addKernel(),
		{Name: "scale", Params: []ParamKind{ParamFloat, ParamFloatBuffer}},
		{Name: "sub", Params: []ParamKind{ParamIntBuffer, ParamIntBuffer, ParamIntBuffer}, Source: subSource},
	}

	tests := []struct {
		name    string
		source  string
		ok      bool
		kernels []string
		logHas  string
	}{
		{
			name:    "single kernel",
			source:  addSource,
			ok:      true,
			kernels: []string{"add"},
		},
		{
			name: "two kernels with comments",
			source: `/* header */
kernel void scale(const float s, __global float* v) { v[get_global_id(0)] *= s; }
// __kernel void ignored(int x) {}
__kernel void add(__global const int* a, __global const int* b, __global int* c) { }`,
			ok:      true,
			kernels: []string{"add", "scale"},
		},
		{
			name: "body matches despite layout",
			source: `__kernel void sub(__global const int* a, __global const int* b, __global int* c)
{
    // index
    const   int i=get_global_id( 0 );
    c[i]   =   a[i]-b[i];
}`,
			ok:      true,
			kernels: []string{"sub"},
		},
		{
			name:   "body differs",
			source: "__kernel void sub(__global const int *a, __global const int *b, __global int *c) { const int i = get_global_id(0); c[i] = a[i] + b[i]; }",
			logHas: "no host implementation for kernel body of 'sub(int*, int*, int*)'",
		},
		{
			name:   "prototype only",
			source: "__kernel void sub(__global const int *a, __global const int *b, __global int *c);",
			logHas: "no host implementation for kernel body of 'sub(int*, int*, int*)'",
		},
		{
			name:   "no kernels",
			source: "int helper(int x) { return x; }",
			logHas: "defines no __kernel functions",
		},
		{
			name:   "unbalanced brace",
			source: "__kernel void add(__global const int *a, __global const int *b, __global int *c) {\n",
			logHas: "<kernel>:1: error: unbalanced '{'",
		},
		{
			name:   "signature mismatch",
			source: "__kernel void add(__global const float *a, __global const float *b, __global float *c) {}",
			logHas: "no host implementation for kernel 'add(float*, float*, float*)'",
		},
		{
			name:   "unsupported type",
			source: "__kernel void add(__global double *a) {}",
			logHas: "unsupported parameter type",
		},
		{
			name:   "redefinition",
			source: addSource + addSource,
			logHas: "redefinition of kernel 'add'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linked, log, ok := hostCompile(tt.source, registry)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (log: %s)", ok, tt.ok, log)
			}
			if tt.logHas != "" && !strings.Contains(log, tt.logHas) {
				t.Errorf("log %q does not contain %q", log, tt.logHas)
			}
			for _, name := range tt.kernels {
				if _, found := linked[name]; !found {
					t.Errorf("kernel %q not linked", name)
				}
			}
		})
	}
}

func TestHostCompileReportsLine(t *testing.T) {
	src := "\n\n__kernel void add(__global double *a) {}\n"
	_, log, ok := hostCompile(src, nil)
	if ok {
		t.Fatal("expected build failure")
	}
	if !strings.HasPrefix(log, "<kernel>:3: error:") {
		t.Errorf("log = %q, want line 3 diagnostic", log)
	}
}

func TestStripCommentsKeepsLines(t *testing.T) {
	src := "a /* x\ny */ b // z\nc"
	got := stripComments(src)
	if strings.Count(got, "\n") != 2 {
		t.Errorf("newlines not preserved: %q", got)
	}
	if strings.ContainsAny(got, "xyz") {
		t.Errorf("comment text not stripped: %q", got)
	}
	for _, want := range []string{"a", "b", "c"} {
		if !strings.Contains(got, want) {
			t.Errorf("code %q lost: %q", want, got)
		}
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams("const float coef, __global const float *x, __global float* out, int n")
	if err != nil {
		t.Fatalf("parseParams failed: %v", err)
	}
	want := []ParamKind{ParamFloat, ParamFloatBuffer, ParamFloatBuffer, ParamInt}
	if Signature(params) != Signature(want) {
		t.Errorf("params = %s, want %s", Signature(params), Signature(want))
	}

	if params, err := parseParams(" void "); err != nil || len(params) != 0 {
		t.Errorf("parseParams(void) = %v, %v", params, err)
	}
}

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"\n    c[i] = a[i] + b[i];\n", "c[i]=a[i]+b[i];"},
		{"const int i = get_global_id(0);", "const int i=get_global_id(0);"},
		{"  return\tx ;", "return x;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeBody(tt.in); got != tt.want {
			t.Errorf("normalizeBody(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKernelBody(t *testing.T) {
	code := "__kernel void f(int x) { if (x) { x++; } }"
	m := kernelDeclPattern.FindStringSubmatchIndex(code)
	if got := kernelBody(code, m[1]); got != " if (x) { x++; } " {
		t.Errorf("kernelBody = %q", got)
	}
}
