package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/xyproto/env/v2"
)

// DriverOptions controls how the driver invokes the external C compiler.
type DriverOptions struct {
	CC      string // compiler override; empty means "resolve from $CC, else cc"
	DumpCmd bool   // print the exact command line before running it
	KeepC   bool   // keep the generated .c file instead of a temp file
}

// resolveCC picks the C compiler to invoke: an explicit -cc flag wins,
// otherwise the $CC environment variable, otherwise the "cc" found on PATH
// — the teacher's go.mod dependency on xyproto/env/v2 exists for exactly
// this kind of "env var with a fallback" lookup.
func resolveCC(override string) string {
	if override != "" {
		return override
	}
	return env.Str("CC", "cc")
}

// CompileC drives the external C compiler over one or more generated
// source files, producing the named output executable. It mirrors a
// standard cc invocation: sources in, -o out, nothing else assumed about
// the compiler's other defaults.
func CompileC(opts DriverOptions, sources []string, outputPath string) error {
	cc := resolveCC(opts.CC)
	args := append(append([]string{}, sources...), "-o", outputPath)

	if opts.DumpCmd {
		fmt.Fprintf(os.Stderr, "%s %v\n", cc, args)
	}

	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%s exited with status %d", cc, exitErr.ExitCode())
		}
		return fmt.Errorf("running %s: %w", cc, err)
	}
	return nil
}
