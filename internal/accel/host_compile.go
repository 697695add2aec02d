package accel

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

var kernelDeclPattern = regexp.MustCompile(`\b(?:__)?kernel\s+void\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`)

type kernelDecl struct {
	name   string
	params []ParamKind
	body   string
	line   int
}

// hostCompile front-ends kernel source for the host driver: it checks the
// source is well formed, extracts every __kernel declaration and links each to
// a registered HostKernel with the same name, parameter list and body. It returns
// the linked kernels and a compiler-style log. ok is false when any
// diagnostic is an error.
func hostCompile(source string, registry []HostKernel) (linked map[string]HostKernel, log string, ok bool) {
	var diags []string
	errorf := func(line int, format string, args ...any) {
		diags = append(diags, fmt.Sprintf("<kernel>:%d: error: %s", line, fmt.Sprintf(format, args...)))
	}

	code := stripComments(source)
	if line, what, bad := unbalanced(code); bad {
		errorf(line, "unbalanced '%s'", what)
		return nil, strings.Join(diags, "\n"), false
	}

	matches := kernelDeclPattern.FindAllStringSubmatchIndex(code, -1)
	if len(matches) == 0 {
		errorf(1, "source defines no __kernel functions")
		return nil, strings.Join(diags, "\n"), false
	}

	decls, scanErrs := scanKernels(code, matches)
	for _, e := range scanErrs {
		errorf(e.line, "%s", e.msg)
	}

	linked = make(map[string]HostKernel, len(decls))
	for _, d := range decls {
		if _, dup := linked[d.name]; dup {
			errorf(d.line, "redefinition of kernel '%s'", d.name)
			continue
		}
		hk, found := lookupHostKernel(registry, d)
		if !found {
			errorf(d.line, "no host implementation for kernel '%s%s'", d.name, Signature(d.params))
			continue
		}
		if !sameBody(hk, d) {
			errorf(d.line, "no host implementation for kernel body of '%s%s'", d.name, Signature(d.params))
			continue
		}
		linked[d.name] = hk
	}

	if len(diags) > 0 {
		return nil, strings.Join(diags, "\n"), false
	}
	return linked, "", true
}

type scanError struct {
	line int
	msg  string
}

// scanKernels types the parameters and extracts the body of every matched
// declaration. code must be comment-free and balanced.
func scanKernels(code string, matches [][]int) ([]kernelDecl, []scanError) {
	var (
		decls []kernelDecl
		errs  []scanError
	)
	for _, m := range matches {
		line := strings.Count(code[:m[0]], "\n") + 1
		name := code[m[2]:m[3]]
		params, err := parseParams(code[m[4]:m[5]])
		if err != nil {
			errs = append(errs, scanError{line: line, msg: fmt.Sprintf("kernel '%s': %v", name, err)})
			continue
		}
		decls = append(decls, kernelDecl{name: name, params: params, body: kernelBody(code, m[1]), line: line})
	}
	return decls, errs
}

// kernelBody returns the text between the braces that follow a declaration
// ending at offset end, or "" for a prototype.
func kernelBody(code string, end int) string {
	i := end
	for i < len(code) && unicode.IsSpace(rune(code[i])) {
		i++
	}
	if i >= len(code) || code[i] != '{' {
		return ""
	}
	depth := 0
	for j := i; j < len(code); j++ {
		switch code[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return code[i+1 : j]
			}
		}
	}
	return code[i+1:]
}

// sameBody reports whether d's body matches the body hk renders.
func sameBody(hk HostKernel, d kernelDecl) bool {
	if hk.Source == "" {
		return true
	}
	code := stripComments(hk.Source)
	decls, _ := scanKernels(code, kernelDeclPattern.FindAllStringSubmatchIndex(code, -1))
	for _, ref := range decls {
		if ref.name == hk.Name && slices.Equal(ref.params, hk.Params) {
			return normalizeBody(ref.body) == normalizeBody(d.body)
		}
	}
	return false
}

// normalizeBody drops whitespace except where it separates two word
// characters, so layout differences do not matter.
func normalizeBody(body string) string {
	var (
		b       strings.Builder
		pending bool
		last    rune
	)
	for _, r := range body {
		if unicode.IsSpace(r) {
			pending = true
			continue
		}
		if pending && isWord(last) && isWord(r) {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lookupHostKernel(registry []HostKernel, d kernelDecl) (HostKernel, bool) {
	for _, hk := range registry {
		if hk.Name == d.name && slices.Equal(hk.Params, d.params) {
			return hk, true
		}
	}
	return HostKernel{}, false
}

func parseParams(list string) ([]ParamKind, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil, nil
	}

	var params []ParamKind
	for _, raw := range strings.Split(list, ",") {
		fields := strings.Fields(strings.ReplaceAll(raw, "*", " * "))
		pointer := slices.Contains(fields, "*")

		var kind ParamKind
		switch {
		case slices.Contains(fields, "int") && pointer:
			kind = ParamIntBuffer
		case slices.Contains(fields, "int"):
			kind = ParamInt
		case slices.Contains(fields, "float") && pointer:
			kind = ParamFloatBuffer
		case slices.Contains(fields, "float"):
			kind = ParamFloat
		default:
			return nil, fmt.Errorf("unsupported parameter type in '%s'", strings.TrimSpace(raw))
		}
		params = append(params, kind)
	}
	return params, nil
}

// stripComments blanks out // and /* */ comments, keeping newlines so line
// numbers stay stable.
func stripComments(src string) string {
	out := []byte(src)
	for i := 0; i < len(out); i++ {
		if out[i] != '/' || i+1 >= len(out) {
			continue
		}
		switch out[i+1] {
		case '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		}
	}
	return string(out)
}

func unbalanced(code string) (line int, what string, bad bool) {
	type open struct {
		ch   byte
		line int
	}
	var stack []open
	line = 1
	pairs := map[byte]byte{')': '(', '}': '{', ']': '['}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch c {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, open{ch: c, line: line})
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1].ch != pairs[c] {
				return line, string(c), true
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return top.line, string(top.ch), true
	}
	return 0, "", false
}
