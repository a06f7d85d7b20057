package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const maxWordLength = 1 << 20

// readWords reads one word per line. Trailing carriage returns are dropped
// and blank lines are skipped.
func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxWordLength)
	for scanner.Scan() {
		word := strings.TrimSuffix(scanner.Text(), "\r")
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read words")
	}
	return words, nil
}

// readWordFile reads a word list from filename, or from stdin if it is "-".
func readWordFile(filename string, stdin io.Reader) ([]string, error) {
	if filename == "-" {
		return readWords(stdin)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open word list")
	}
	defer f.Close()
	return readWords(f)
}
