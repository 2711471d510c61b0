package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errPromptClosed = errors.New("input closed")

// confirm asks question and accepts exactly "Y" as yes.
func confirm(reader *bufio.Reader, out io.Writer, question string) (bool, error) {
	if reader == nil {
		return false, fmt.Errorf("confirmation input is not available")
	}
	if out == nil {
		out = io.Discard
	}

	if _, err := fmt.Fprintf(out, "%s Type Y to confirm: ", question); err != nil {
		return false, fmt.Errorf("write confirmation prompt: %w", err)
	}

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func promptSelectIndex(reader *bufio.Reader, out io.Writer, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options available for %q", title)
	}

	for {
		fmt.Fprintln(out, title)
		for i, option := range options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprintf(out, "Choose [1-%d]: ", len(options))

		input, err := readPromptLine(reader)
		if err != nil {
			return -1, fmt.Errorf("read selection input: %w", err)
		}
		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintln(out, "Invalid selection. Please enter a valid number.")
			continue
		}
		return choice - 1, nil
	}
}

func promptRequiredString(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", strings.TrimSpace(label))
		value, err := readPromptLine(reader)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSpace(label)), err)
		}
		if value == "" {
			fmt.Fprintln(out, "Value must not be empty.")
			continue
		}
		return value, nil
	}
}

// promptOptionalString returns fallback for an empty answer.
func promptOptionalString(reader *bufio.Reader, out io.Writer, label, fallback string) (string, error) {
	fmt.Fprintf(out, "%s [%s]: ", strings.TrimSpace(label), fallback)
	value, err := readPromptLine(reader)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSpace(label)), err)
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// readPromptLine accepts a last line without newline; an empty closed input is an error.
func readPromptLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errPromptClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
