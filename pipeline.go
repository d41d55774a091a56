// Completion: 100% - Pass pipeline complete
package main

import (
	"fmt"
	"os"
)

// The pipeline runs strictly forward: syntax tree, coalescing, peephole,
// and only then code generation. Both passes are pure transforms that
// cannot fail; the mode flag is a backend concern and never reaches them.

// Compile parses source and runs the optimization passes over it
func Compile(src []byte, peephole bool) (OptProgram, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	opt := Coalesce(prog)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "coalesced: %s\n", opt)
	}
	if peephole {
		opt = Peephole(opt)
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "peephole:  %s\n", opt)
		}
	}
	return opt, nil
}
