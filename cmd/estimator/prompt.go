package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akbarifar/mro-estimator/internal/catalog"
)

var (
	errInputClosed = errors.New("input closed before the estimate was complete")
	errNoOptions   = fmt.Errorf("nothing to choose from: %w", catalog.ErrNoResults)
)

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) listOptions(options []string) {
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}
}

func (p *prompter) invalid() {
	fmt.Fprintln(p.out, "Invalid selection. Try again.")
}

// choose returns the zero-based index of one numbered option.
func (p *prompter) choose(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errNoOptions
	}
	p.listOptions(options)
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		p.invalid()
	}
}

// chooseMany returns the zero-based indexes of a comma-separated selection, in
// the order given. At least one option must be picked.
func (p *prompter) chooseMany(prompt string, options []string) ([]int, error) {
	if len(options) == 0 {
		return nil, errNoOptions
	}
	p.listOptions(options)
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return nil, err
		}
		if picked, ok := parseSelection(answer, len(options)); ok {
			return picked, nil
		}
		p.invalid()
	}
}

func parseSelection(answer string, n int) ([]int, bool) {
	var picked []int
	seen := make(map[int]bool)
	for _, field := range strings.Split(answer, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 1 || idx > n {
			return nil, false
		}
		if !seen[idx] {
			seen[idx] = true
			picked = append(picked, idx-1)
		}
	}
	return picked, len(picked) > 0
}

func (p *prompter) confirm(prompt string) (bool, error) {
	answer, err := p.ask(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

func (p *prompter) quantity(prompt string) (int, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, "Quantity must be a positive whole number.")
	}
}
