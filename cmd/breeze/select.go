package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSelection turns operator input into 1-based indices into a list
// of max items. "all" selects everything, "0" or an empty string
// cancels (nil, no error), and "1,3,5" picks items in the order given
// with duplicates dropped.
func parseSelection(input string, max int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" || input == "0" {
		return nil, nil
	}
	if strings.EqualFold(input, "all") {
		indices := make([]int, max)
		for i := range indices {
			indices[i] = i + 1
		}
		return indices, nil
	}

	seen := make(map[int]struct{})
	var indices []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		if n < 1 || n > max {
			return nil, fmt.Errorf("selection %d is out of range (1-%d)", n, max)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		indices = append(indices, n)
	}
	if len(indices) == 0 {
		return nil, nil
	}
	return indices, nil
}

// promptSelection reads a selection from stdin after showing a prompt.
func promptSelection(prompt string) (string, error) {
	fmt.Print(prompt)
	var input string
	if _, err := fmt.Scanln(&input); err != nil {
		// Empty line or EOF is a cancel, not an error.
		return "", nil
	}
	return input, nil
}
