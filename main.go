// Completion: 95% - CLI complete, all flags working
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// A tiny optimizing compiler and JIT for the eight-symbol tape language,
// targeting x86_64 Linux, with an interpreter everywhere else

const versionString = "bf67 1.1.0"

// VerboseMode makes the passes and emitters trace to stderr
var VerboseMode bool

func main() {
	// NOTE: Go's flag package stops parsing at the first non-flag
	// argument, so flags must come before the filename
	var (
		versionShort  = flag.Bool("V", false, "print version information and exit")
		version       = flag.Bool("version", false, "print version information and exit")
		verbose       = flag.Bool("v", false, "verbose mode (trace passes and emitted machine code)")
		verboseLong   = flag.Bool("verbose", false, "verbose mode (trace passes and emitted machine code)")
		codeFlag      = flag.String("c", "", "execute source code given on the command line")
		interpShort   = flag.Bool("i", false, "force the interpreter, even where the JIT is available")
		interpLong    = flag.Bool("interp", false, "force the interpreter, even where the JIT is available")
		uncheckedFlag = flag.Bool("unchecked", false, "omit pointer bounds checks from generated code (unsafe)")
		uncheckedAbbr = flag.Bool("u", false, "shorthand for -unchecked")
		sizeFlag      = flag.Int("size", env.Int("BF67_SIZE", DefaultTapeSize), "tape capacity in cells")
		dumpShort     = flag.Bool("d", false, "print the optimized instruction stream and exit")
		dumpLong      = flag.Bool("dump", false, "print the optimized instruction stream and exit")
		noOpt         = flag.Bool("no-opt", false, "disable the peephole pass (coalescing always runs)")
	)
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	VerboseMode = *verbose || *verboseLong || env.Bool("BF67_VERBOSE")

	var src []byte
	switch {
	case *codeFlag != "":
		src = []byte(*codeFlag)
	case flag.NArg() == 1:
		var err error
		src, err = os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "bf67: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: bf67 [flags] program.bf\n       bf67 [flags] -c 'code'\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	opt, err := Compile(src, !*noOpt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf67: %v\n", err)
		os.Exit(1)
	}

	if *dumpShort || *dumpLong {
		fmt.Println(opt.String())
		os.Exit(0)
	}

	interp := *interpShort || *interpLong || !jitSupported
	unchecked := *uncheckedFlag || *uncheckedAbbr

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	tape := NewTape(*sizeFlag, in, out)
	if interp {
		// the interpreter is always bounds-checked; -unchecked only
		// changes the shape of generated code
		err = RunOptimized(opt, tape)
	} else {
		var artifact *Artifact
		artifact, err = Generate(opt, GenOptions{Unchecked: unchecked})
		if err == nil {
			defer artifact.Close()
			err = artifact.Run(tape)
		}
	}
	out.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf67: %v\n", err)
		os.Exit(1)
	}
}
