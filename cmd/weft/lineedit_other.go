//go:build !linux

package main

import (
	"bufio"
	"io"
	"os"
)

var stdinReader *bufio.Reader

func readInteractiveLine(_ string) (string, error) {
	return readBufferedLine()
}

// readBufferedLine shares one reader across calls so piped input is not
// dropped between lines. The final unterminated line is still returned;
// io.EOF surfaces once the stream is exhausted.
func readBufferedLine() (string, error) {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(os.Stdin)
	}
	s, err := stdinReader.ReadString('\n')
	if err != nil {
		if err != io.EOF || s == "" {
			return "", err
		}
	}
	return trimTrailingNewline(s), nil
}

func trimTrailingNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}
