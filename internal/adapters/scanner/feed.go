package scanner

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// LineFeed turns newline-terminated input, as sent by keyboard-wedge USB
// scanners or typed on stdin, into a frame stream. The channel closes at
// EOF or when ctx ends.
func LineFeed(ctx context.Context, r io.Reader) <-chan string {
	frames := make(chan string)
	go func() {
		defer close(frames)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case frames <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return frames
}
