package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// lineReader feeds lines from a reader to whoever calls next, so a blocked
// terminal read never keeps a caller from seeing its context end.
type lineReader struct {
	lines chan string
	done  chan struct{}
	stop  chan struct{}
	once  sync.Once
	err   error
}

func newLineReader(in io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		done:  make(chan struct{}),
		stop:  make(chan struct{}),
	}
	go lr.run(bufio.NewScanner(in))
	return lr
}

func (lr *lineReader) run(scanner *bufio.Scanner) {
	defer close(lr.done)
	for scanner.Scan() {
		select {
		case lr.lines <- strings.TrimRight(scanner.Text(), "\r"):
		case <-lr.stop:
			return
		}
	}
	lr.err = scanner.Err()
}

// next returns the next line, io.EOF at end of input, or ctx.Err() once
// ctx is done.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-lr.lines:
		return line, nil
	case <-lr.done:
		if lr.err != nil {
			return "", lr.err
		}
		return "", io.EOF
	}
}

// close stops delivery. A read already blocked in the underlying reader
// finishes on its own.
func (lr *lineReader) close() {
	lr.once.Do(func() { close(lr.stop) })
}

// lineInput answers prompts with the next line read from the terminal.
// End of input or a done context counts as a cancelled prompt.
type lineInput struct {
	ctx   context.Context
	lines *lineReader
	out   io.Writer
}

func (in *lineInput) Prompt(message string) (string, bool) {
	fmt.Fprint(in.out, message+" ")
	line, err := in.lines.next(in.ctx)
	if err != nil {
		fmt.Fprintln(in.out)
		return "", false
	}
	return line, true
}
