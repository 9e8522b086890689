package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const versionString = "charta 1.0.0"

// VerboseMode mirrors the teacher's global verbosity switch, read by every
// stage that wants to log progress instead of threading a flag through
// each function signature.
var VerboseMode bool

func main() {
	var (
		dumpIR    = flag.Bool("ir", false, "dump the linear IR for each function to stderr")
		dumpGen   = flag.Bool("gen", false, "dump the generated C source to stderr")
		dumpCmd   = flag.Bool("cmd", false, "dump the driver command line to stderr")
		output    = flag.String("o", "", "output executable path (default: input basename)")
		ccFlag    = flag.String("cc", "", "override the C compiler invoked by the driver ($CC, else cc)")
		keepC     = flag.Bool("keep-c", false, "keep the generated .c file next to the output")
		verbose   = flag.Bool("v", false, "verbose mode: log each pipeline stage")
		version   = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println(versionString)
		return
	}
	VerboseMode = *verbose

	inputFiles := flag.Args()
	if len(inputFiles) == 0 {
		log.Fatalf("charta: no input files")
	}

	for _, path := range inputFiles {
		out := *output
		if out == "" {
			out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		opts := DriverOptions{CC: *ccFlag, DumpCmd: *dumpCmd, KeepC: *keepC}
		if err := compileFile(path, out, opts, *dumpIR, *dumpGen); err != nil {
			reportError(path, err)
			os.Exit(1)
		}
		if VerboseMode {
			log.Printf("-> wrote executable: %s", out)
		}
	}
}

// compileFile runs the whole pipeline over one source file: lex, parse,
// traverse, check, emit, then hand the generated C off to the driver.
// Every stage is fatal-on-error with no partial output, per the error
// handling policy: the first failing stage's error is returned unwrapped
// so reportError can render the right kind of diagnostic for it.
func compileFile(path, outputPath string, opts DriverOptions, dumpIR, dumpGen bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	input := string(src)

	if VerboseMode {
		log.Printf("lexing %s", path)
	}
	toks, err := NewLexer(input).Lex()
	if err != nil {
		return err
	}
	if VerboseMode {
		for _, tok := range toks {
			log.Printf("token %s", tok)
		}
	}

	if VerboseMode {
		log.Printf("parsing %s", path)
	}
	decls, err := NewParser(toks).ParseProgram()
	if err != nil {
		return err
	}
	if VerboseMode {
		for _, decl := range decls {
			log.Printf("%s", decl.Signature())
		}
	}

	if VerboseMode {
		log.Printf("traversing %d declaration(s)", len(decls))
	}
	fns, err := BuildFunctions(decls)
	if err != nil {
		return err
	}

	if dumpIR {
		for _, fn := range fns {
			fmt.Fprintf(os.Stderr, "fn %s\n", fn.Name)
			for _, instr := range fn.Body {
				fmt.Fprintf(os.Stderr, "  %s\n", instr)
			}
		}
	}

	if VerboseMode {
		log.Printf("checking %d function(s)", len(fns))
	}
	if err := CheckProgram(fns); err != nil {
		return err
	}

	cSource := EmitC(fns)
	if dumpGen {
		fmt.Fprintln(os.Stderr, cSource)
	}

	return buildExecutable(cSource, outputPath, opts)
}

// buildExecutable writes the generated source and the embedded runtime
// into a scratch directory, then drives the external C compiler over it.
func buildExecutable(cSource, outputPath string, opts DriverOptions) error {
	dir := outputPath + ".charta"
	if opts.KeepC {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	} else {
		tmp, err := os.MkdirTemp("", "charta-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	cPath := filepath.Join(dir, "program.c")
	if err := os.WriteFile(cPath, []byte(cSource), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "charta_rt.h"), []byte(runtimeHeader), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "charta_rt.c"), []byte(runtimeSource), 0o644); err != nil {
		return err
	}

	rtPath := filepath.Join(dir, "charta_rt.c")
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	return CompileC(opts, []string{cPath, rtPath}, absOutput)
}

// reportError renders a diagnostic for whichever error stage produced it:
// a byte-span caret underline for lex/parse errors, grid coordinates for a
// traverser error, and the function name for a checker error.
func reportError(path string, err error) {
	switch e := err.(type) {
	case *LexError:
		printCaret(path, e.Start, e.End, e.Error())
	case *ParserError:
		printCaret(path, e.Start, e.End, e.Error())
	case *TraverserError:
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, e.Error())
	case *CheckError:
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, e.Error())
	default:
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
	}
}

// printCaret renders the source line(s) spanned by [start,end) followed by
// a caret underline, mirroring the original tool's diagnostic layout.
func printCaret(path string, start, end int, message string) {
	src, readErr := os.ReadFile(path)
	if readErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, message)
		return
	}
	input := string(src)

	line := 1
	lineStart := 0
	for i := 0; i < start && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	if end <= start {
		end = start + 1
	}
	i := start
	if i >= len(input) {
		i = len(input) - 1
	}
	spanStart := i
	for ; i < end && i < len(input); i++ {
		if input[i] == '\n' || i == end-1 || i >= len(input)-1 {
			lineEnd := strings.IndexByte(input[lineStart:], '\n')
			if lineEnd < 0 {
				lineEnd = len(input)
			} else {
				lineEnd += lineStart
			}
			pad := len(fmt.Sprintf("%d", line)) + 3
			fmt.Fprintf(os.Stderr, "%d | %s\n", line, input[lineStart:lineEnd])
			fmt.Fprintf(os.Stderr, "%s%s\n",
				strings.Repeat(" ", pad+spanStart-lineStart),
				strings.Repeat("^", i-spanStart+1))
			lineStart = i + 1
			spanStart = i + 1
			line++
		}
	}
	fmt.Fprintf(os.Stderr, "err: %s\n", message)
}
