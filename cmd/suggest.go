package cmd

import (
	"errors"
	"fmt"

	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/style"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// closest returns the candidate with the smallest edit distance to s.
func closest(s string, candidates []string) string {
	return lo.MinBy(candidates, func(a string, b string) bool {
		return levenshtein.Distance(s, a) < levenshtein.Distance(s, b)
	})
}

func errUnknown(what, value string, candidates []string) error {
	msg := fmt.Sprintf(
		"unknown %s %s, did you mean %s?",
		what,
		style.Fg(color.Red)(value),
		style.Fg(color.Yellow)(closest(value, candidates)),
	)

	return errors.New(msg)
}
