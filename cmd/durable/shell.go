package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/durable/internal/view"
)

// NewShellCmd creates the interactive shell command.
func NewShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Search interactively",
		Long: `Shell reads one query per line and searches as you type. A new line
supersedes the search still running for the previous one, whose result is
never printed. Type :q to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}
			locale, _ := cmd.Flags().GetString("locale")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), func(ctx context.Context, line string) (string, error) {
				req := searchRequest{Text: line, Locale: locale}
				list, err := s.search(ctx, req)
				if err != nil {
					return "", err
				}
				var buf bytes.Buffer
				if err := writeList(&buf, format, req.title(), list); err != nil {
					return "", err
				}
				return buf.String(), nil
			})
		},
	}
	cmd.Flags().StringP("format", "f", formatMarkdown, "Output format: markdown or json")
	cmd.Flags().String("locale", "", "Marketplace locale for purchase links")
	return cmd
}

type shellRunner func(ctx context.Context, line string) (string, error)

// runShell issues one search per input line. Only the latest line may print:
// a superseded search is cancelled and its late result dropped.
func runShell(ctx context.Context, in io.Reader, out io.Writer, run shellRunner) error {
	var (
		slot   view.Slot[string]
		outMu  sync.Mutex
		wg     sync.WaitGroup
		cancel context.CancelFunc = func() {}
	)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":q" || line == ":quit" {
			cancel()
			break
		}

		ticket := slot.Begin()
		cancel()
		var lineCtx context.Context
		lineCtx, cancel = context.WithCancel(ctx)

		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := run(lineCtx, line)
			if err != nil {
				if !slot.Active(ticket) {
					return
				}
				text = fmt.Sprintf("❌ %v\n", err)
			}
			if slot.Commit(ticket, text) {
				outMu.Lock()
				fmt.Fprint(out, text)
				outMu.Unlock()
			}
		}()
	}

	wg.Wait()
	cancel()
	return scanner.Err()
}
