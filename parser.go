// Completion: 100% - Parser complete, all bracket cases covered
package main

// Parses concrete syntax into a Program. Any byte that is not one of the
// eight command symbols is a comment and is skipped. The parser is total:
// it either returns a well-formed tree or one of the two bracket errors.

// Parse parses source bytes into a syntax tree
func Parse(src []byte) (Program, error) {
	prog, rest, err := parseBody(src)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		// parseBody only stops early on a ']' with no open '['
		return nil, ErrUnmatchedEnd
	}
	return prog, nil
}

// parseBody consumes instructions until end of input or a ']' belonging to
// the enclosing loop. The ']' is left unconsumed for the caller.
func parseBody(src []byte) (Program, []byte, error) {
	var prog Program
	for len(src) > 0 {
		c := src[0]
		if c == ']' {
			return prog, src, nil
		}
		src = src[1:]
		switch c {
		case '<':
			prog = append(prog, &Op{Cmd: Left})
		case '>':
			prog = append(prog, &Op{Cmd: Right})
		case '+':
			prog = append(prog, &Op{Cmd: Up})
		case '-':
			prog = append(prog, &Op{Cmd: Down})
		case ',':
			prog = append(prog, &Op{Cmd: Input})
		case '.':
			prog = append(prog, &Op{Cmd: Output})
		case '[':
			body, rest, err := parseBody(src)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) == 0 {
				return nil, nil, ErrUnmatchedBegin
			}
			src = rest[1:] // skip the matching ']'
			prog = append(prog, &LoopNode{Body: body})
		default:
			// comment byte
		}
	}
	return prog, nil, nil
}
