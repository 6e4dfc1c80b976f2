package bpe

import (
	"fmt"
	"os"
	"strings"
)

type pair struct {
	a string
	b string
}

// buildRanks turns an ordered merge list into a rank table. Earlier rules
// get lower ranks and win ties during merging. Blank lines and #-prefixed
// header lines are skipped; anything else must be exactly two fields.
func buildRanks(merges []string) (map[pair]int, error) {
	ranks := make(map[pair]int, len(merges))
	rank := 0
	for i, line := range merges {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, " ")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidMergeRule, i+1, line)
		}
		p := pair{a: parts[0], b: parts[1]}
		if _, ok := ranks[p]; !ok {
			ranks[p] = rank
			rank++
		}
	}
	return ranks, nil
}

// LoadMerges reads a newline-delimited merge rule file.
func LoadMerges(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read merges: %w", err)
	}
	raw := strings.Split(string(data), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
