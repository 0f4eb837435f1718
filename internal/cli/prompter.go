package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Prompter asks for values interactively, re-prompting until the answer is valid.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// AskString asks for a value; an empty answer returns def.
func (p *Prompter) AskString(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskBudget asks for a positive monthly budget.
func (p *Prompter) AskBudget(ctx context.Context, def float64) (float64, error) {
	defText := strconv.FormatFloat(def, 'f', -1, 64)
	return ask(ctx, p, "Monthly budget", defText, func(answer string) (float64, error) {
		return ledger.ParseBudget(answer)
	})
}

// AskAmount asks for a positive expense amount.
func (p *Prompter) AskAmount(ctx context.Context) (float64, error) {
	return ask(ctx, p, "Amount", "", func(answer string) (float64, error) {
		amount, err := strconv.ParseFloat(answer, 64)
		if err != nil || amount <= 0 {
			return 0, fmt.Errorf("enter an amount greater than zero")
		}
		return amount, nil
	})
}

// AskCategory lists the categories and asks for one by number or id.
func (p *Prompter) AskCategory(ctx context.Context) (string, error) {
	for i, c := range model.Categories {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s %s\n", i+1, c.Emoji, c.Name); err != nil {
			return "", fmt.Errorf("failed to write category option: %w", err)
		}
	}

	return ask(ctx, p, "Category", model.CategoryOther, func(answer string) (string, error) {
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(model.Categories) {
			return model.Categories[n-1].ID, nil
		}
		id := strings.ToLower(answer)
		if model.IsValidCategory(id) {
			return id, nil
		}
		return "", fmt.Errorf("unknown category %q", answer)
	})
}

// AskDate asks for a YYYY-MM-DD date, defaulting to today.
func (p *Prompter) AskDate(ctx context.Context, today time.Time) (model.Date, error) {
	return ask(ctx, p, "Date", string(model.NewDate(today)), model.ParseDate)
}

// AskDescription asks for a non-empty description within the length limit.
func (p *Prompter) AskDescription(ctx context.Context) (string, error) {
	return ask(ctx, p, "Description", "", func(answer string) (string, error) {
		if answer == "" {
			return "", fmt.Errorf("a description is required")
		}
		if len([]rune(answer)) > model.MaxDescriptionLength {
			return "", fmt.Errorf("keep it under %d characters", model.MaxDescriptionLength)
		}
		return answer, nil
	})
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.AskString(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func ask[T any](ctx context.Context, p *Prompter, label, def string, parse func(string) (T, error)) (T, error) {
	for {
		answer, err := p.AskString(ctx, label, def)
		if err != nil {
			var zero T
			return zero, err
		}

		value, err := parse(answer)
		if err == nil {
			return value, nil
		}

		if _, werr := fmt.Fprintln(p.writer, FormatError(err.Error())); werr != nil {
			var zero T
			return zero, fmt.Errorf("failed to write validation error: %w", werr)
		}
	}
}
