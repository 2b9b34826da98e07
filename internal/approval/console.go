package approval

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned when the reviewer's input ends before an answer.
var ErrInputClosed = errors.New("reviewer input closed")

const rule = "============================================================"

// ConsoleReviewer shows each candidate on a writer and reads the verdict from
// a reader: "y" or "yes" approves, anything else asks for one line of changes.
type ConsoleReviewer struct {
	in     *bufio.Reader
	out    io.Writer
	render func(string) (string, error)
	header func(string) string
}

type ConsoleOption func(*ConsoleReviewer)

// WithRenderer renders candidate text (for example as markdown) before display.
// Rendering failures fall back to the raw text.
func WithRenderer(render func(string) (string, error)) ConsoleOption {
	return func(c *ConsoleReviewer) {
		c.render = render
	}
}

// WithHeaderStyle decorates the stage header line.
func WithHeaderStyle(style func(string) string) ConsoleOption {
	return func(c *ConsoleReviewer) {
		c.header = style
	}
}

func NewConsoleReviewer(in io.Reader, out io.Writer, opts ...ConsoleOption) *ConsoleReviewer {
	c := &ConsoleReviewer{
		in:     bufio.NewReader(in),
		out:    out,
		header: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleReviewer) Review(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	text := req.Text
	if c.render != nil {
		if rendered, err := c.render(text); err == nil {
			text = rendered
		}
	}

	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n%s\n", rule, c.header("📝 "+req.Stage+" OUTPUT"), rule, text)
	fmt.Fprint(c.out, "\nDo you approve this? (yes / no)\n> ")

	answer, err := c.readLine()
	if err != nil {
		return Response{}, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return Response{Approved: true}, nil
	}

	fmt.Fprint(c.out, "\nEnter the changes you want (single line):\n> ")
	changes, err := c.readLine()
	if err != nil {
		return Response{}, err
	}
	return Response{Approved: false, Changes: changes}, nil
}

func (c *ConsoleReviewer) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("reading reviewer input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
