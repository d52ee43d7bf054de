package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question and re-prompts until the answer is valid.
// A blank answer takes the default.
func Confirm(ctx context.Context, liner Liner, out io.Writer, question string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}

	for {
		line, err := liner.ReadLine(ctx, Request{
			Kind:   KindConfirm,
			Prompt: question + " " + suffix,
		})
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, FormatError("Please answer y or n."))
		}
	}
}
