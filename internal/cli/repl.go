package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/petrijr/canvas"
	"github.com/petrijr/canvas/internal/workflow"
	"github.com/petrijr/canvas/pkg/api"
)

const replHelp = `commands:
  add <kind>           drop a palette component at the end
  move <from> <to>     move the step at <from> to <to>
  delete <index>       delete the step at <index>
  list                 show the workflow
  kinds                show the palette
  save                 save the workflow
  load                 load the saved workflow
  export [json|yaml]   print the encoded workflow
  help                 show this help
  quit                 leave the editor`

// REPL is a line-oriented presentation layer for a canvas.Session.
type REPL struct {
	session *canvas.Session
	in      io.Reader
	out     io.Writer
}

// NewREPL reads commands from in and writes to out. Payload prompts read
// their answers from the same input.
func NewREPL(session *canvas.Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{session: session, in: in, out: out}
}

// Run processes commands until quit, end of input, or ctx is done. It
// returns ctx.Err() as soon as ctx is done, even while waiting for input.
func (r *REPL) Run(ctx context.Context) error {
	lines := newLineReader(r.in)
	defer lines.close()
	input := &lineInput{ctx: ctx, lines: lines, out: r.out}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, "> ")
		line, err := lines.next(ctx)
		if err != nil {
			fmt.Fprintln(r.out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := r.exec(ctx, input, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *REPL) exec(ctx context.Context, input api.InputProvider, cmd string, args []string) error {
	switch cmd {
	case "add", "drop":
		if len(args) != 1 {
			return errors.New("usage: add <kind>")
		}
		kind, err := api.ParseKind(args[0])
		if err != nil {
			return err
		}
		step, err := r.session.Drop(ctx, kind, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "added %s\n", step)
		return nil

	case "move":
		ints, err := parseInts(args, 2, "usage: move <from> <to>")
		if err != nil {
			return err
		}
		if err := r.session.Move(ctx, ints[0], ints[1]); err != nil {
			return err
		}
		printSteps(r.out, r.session.Steps())
		return nil

	case "delete", "rm":
		ints, err := parseInts(args, 1, "usage: delete <index>")
		if err != nil {
			return err
		}
		if err := r.session.Delete(ctx, ints[0]); err != nil {
			return err
		}
		printSteps(r.out, r.session.Steps())
		return nil

	case "list", "ls":
		printSteps(r.out, r.session.Steps())
		return nil

	case "kinds", "palette":
		printPalette(r.out)
		return nil

	case "save":
		if err := r.session.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Workflow saved successfully!")
		return nil

	case "load":
		if err := r.session.Load(ctx); err != nil {
			if errors.Is(err, api.ErrNotFound) {
				fmt.Fprintln(r.out, "No saved workflow found!")
				return nil
			}
			return err
		}
		printSteps(r.out, r.session.Steps())
		return nil

	case "export":
		codec := r.session.Codec()
		if len(args) > 0 {
			c, err := workflow.CodecByName(args[0])
			if err != nil {
				return err
			}
			codec = c
		}
		return writeExport(r.out, r.session.Steps(), codec)

	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
		return nil

	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func writeExport(w io.Writer, steps []api.Step, codec workflow.Codec) error {
	data, err := codec.Encode(steps)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))
	return nil
}

func printPalette(w io.Writer) {
	for _, k := range api.Kinds() {
		fmt.Fprintf(w, "  %-20s %s\n", k, api.PaletteLabel(k))
	}
}

func parseInts(args []string, n int, usage string) ([]int, error) {
	if len(args) != n {
		return nil, errors.New(usage)
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an index", a)
		}
		out[i] = v
	}
	return out, nil
}

func printSteps(w io.Writer, steps []api.Step) {
	if len(steps) == 0 {
		fmt.Fprintln(w, "(empty workflow)")
		return
	}
	for i, s := range steps {
		fmt.Fprintf(w, "%3d  %s  (#%d)\n", i, s.Label(), s.ID)
	}
}
