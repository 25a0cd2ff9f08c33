package sender

import (
	"context"
	"fmt"
	"io"
)

// Terminal writes responses to an output stream, used by the command line.
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Reply(_ context.Context, text string) error {
	_, err := fmt.Fprintln(t.out, text)
	return err
}
