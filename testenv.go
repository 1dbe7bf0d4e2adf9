package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// runHeadless drives sess from line commands on in, one status line per
// command on out. It returns at "quit" or end of input.
func runHeadless(sess *EditSession, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" || strings.HasPrefix(cmd, "#") {
			continue
		}
		a, ok := parseAction(cmd)
		if !ok {
			fmt.Fprintf(out, "%s: unknown command\n", cmd)
			continue
		}
		if sess.Do(a) {
			fmt.Fprintf(out, "quit exports=%d\n", sess.Exports())
			return nil
		}
		l, r := sess.Span()
		fmt.Fprintf(out, "%s pos=%s window=%s-%s %s\n",
			cmd, formatClock(sess.Position()), formatClock(l), formatClock(r), sess.Status())
	}
	return scanner.Err()
}
