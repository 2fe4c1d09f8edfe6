package userinteraction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

type ConsoleUserInteraction struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return NewConsole(os.Stdin, color.Output)
}

func NewConsole(in io.Reader, out io.Writer) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (u *ConsoleUserInteraction) AskQuestion(ctx context.Context, question string) (string, error) {
	color.New(color.FgCyan, color.Bold).Fprintf(u.out, "\n%s\n", question)
	fmt.Fprint(u.out, "> ")

	answer, err := u.readLine(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	return answer, nil
}

// Choose lists options numbered from 1 and returns the zero-based index of
// the pick. It asks again until the answer is a valid number.
func (u *ConsoleUserInteraction) Choose(ctx context.Context, question string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options to choose from")
	}

	color.New(color.FgCyan, color.Bold).Fprintf(u.out, "\n%s\n", question)
	for i, opt := range options {
		fmt.Fprintf(u.out, "  %d) %s\n", i+1, opt)
	}

	for {
		fmt.Fprint(u.out, "> ")
		answer, err := u.readLine(ctx)
		if err != nil {
			return -1, fmt.Errorf("failed to read choice: %w", err)
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		color.New(color.FgRed).Fprintf(u.out, "請輸入 1-%d\n", len(options))
	}
}

func (u *ConsoleUserInteraction) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := u.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (u *ConsoleUserInteraction) ShowTask(ctx context.Context, task *entity.Task) {
	if task == nil {
		return
	}

	color.New(color.FgCyan, color.Bold).Fprintf(u.out, "\n━━━ %s ━━━\n", task.Description)
	color.New(color.Faint).Fprintf(u.out, "%s • %s\n", task.Status, task.Category)
	if task.AIAnalysis != "" {
		color.New(color.FgBlue).Fprint(u.out, "🤖 ")
		fmt.Fprintln(u.out, task.AIAnalysis)
	}

	for _, s := range task.Steps {
		icon, c := stepDisplay(s.Status)
		c.Fprintf(u.out, "  %s %s\n", icon, s.Title)
	}

	if task.Quote != nil && task.IsEscrowActive {
		color.New(color.FgGreen).Fprintf(u.out, "🔒 $%d held in escrow\n", task.Quote.Total)
	}
}

func stepDisplay(status entity.StepStatus) (string, *color.Color) {
	switch status {
	case entity.StepDone:
		return "✓", color.New(color.FgGreen)
	case entity.StepActive:
		return "▶", color.New(color.FgYellow, color.Bold)
	default:
		return "○", color.New(color.Faint)
	}
}

func (u *ConsoleUserInteraction) ShowProviders(ctx context.Context, providers []entity.Provider) {
	if len(providers) == 0 {
		color.New(color.Faint).Fprintln(u.out, "(沒有附近的服務者)")
		return
	}
	for _, p := range providers {
		color.New(color.FgYellow, color.Bold).Fprintf(u.out, "👤 %s", p.Name)
		color.New(color.Faint).Fprintf(u.out, "  %s • ⭐ %.1f • %s • $%d\n", p.Type, p.Rating, p.Distance, p.BasePrice)
	}
}

func (u *ConsoleUserInteraction) ShowQuote(ctx context.Context, quote *entity.Quote) {
	if quote == nil {
		return
	}

	color.New(color.FgCyan, color.Bold).Fprintf(u.out, "\n🧾 %s (%s)\n", quote.ProviderName, quote.Status)
	for _, it := range quote.Items {
		fmt.Fprintf(u.out, "  %-24s %3d x $%-7d $%d\n", truncate(it.Description, 24), it.Quantity, it.UnitPrice, it.Amount())
	}
	color.New(color.FgGreen, color.Bold).Fprintf(u.out, "  Total: $%d\n", quote.Total)
}

func (u *ConsoleUserInteraction) ShowToast(ctx context.Context, message string) {
	color.New(color.FgGreen, color.Bold).Fprintf(u.out, "\n✓ %s\n", message)
}

func (u *ConsoleUserInteraction) ShowError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed).Fprint(u.out, "❌ ")
	color.New(color.Faint).Fprintln(u.out, truncate(err.Error(), 300))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
