// Package stream merges the stdout and stderr pipes of a child process into
// a single ordered channel of tagged lines. Each pipe is drained by its own
// goroutine; reading the pipes sequentially would deadlock once the child
// fills the OS buffer of whichever pipe is not being read.
package stream

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Stream names used as line tags and log prefixes.
const (
	Stdout = "stdout"
	Stderr = "stderr"
)

// Line is one line of child output tagged with its origin stream.
type Line struct {
	Stream string
	Text   string
}

// Multiplex drains stdout and stderr concurrently and delivers every line on
// the returned channel. Lines from the same pipe arrive in their original
// order; interleaving across pipes is arrival order. The channel is closed
// only after both pipes have reached EOF, so a closed channel is a reliable
// end-of-stream signal distinct from a silent child.
func Multiplex(stdout, stderr io.Reader) <-chan Line {
	lines := make(chan Line)

	var g errgroup.Group
	g.Go(func() error { return drain(stdout, Stdout, lines) })
	g.Go(func() error { return drain(stderr, Stderr, lines) })

	go func() {
		// Read errors are not actionable here: a broken pipe means the
		// child is gone and Wait on the process reports the real story.
		_ = g.Wait()
		close(lines)
	}()

	return lines
}

// drain reads r to EOF, emitting one Line per newline. Lines are unbounded:
// Pioneer redraws progress bars with carriage returns, so a single line can
// run far past any fixed buffer, and a capped reader would stop draining the
// pipe and wedge the child.
func drain(r io.Reader, name string, out chan<- Line) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		text, err := reader.ReadString('\n')
		if len(text) > 0 {
			text = strings.TrimSuffix(text, "\n")
			text = strings.TrimSuffix(text, "\r")
			out <- Line{Stream: name, Text: text}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
