package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunShellPrintsOnlyLatest(t *testing.T) {
	t.Parallel()

	run := func(ctx context.Context, line string) (string, error) {
		if line == "slow" {
			// Finishes only once superseded.
			<-ctx.Done()
			return "slow result\n", nil
		}
		return line + " result\n", nil
	}

	var out bytes.Buffer
	if err := runShell(context.Background(), strings.NewReader("slow\n\nfast\n"), &out, run); err != nil {
		t.Fatal(err)
	}
	if out.String() != "fast result\n" {
		t.Errorf("output = %q, want only the latest result", out.String())
	}
}

func TestRunShellReportsErrors(t *testing.T) {
	t.Parallel()

	run := func(context.Context, string) (string, error) {
		return "", errors.New("catalog unavailable")
	}

	var out bytes.Buffer
	if err := runShell(context.Background(), strings.NewReader("bosch\n"), &out, run); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "catalog unavailable") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunShellQuit(t *testing.T) {
	t.Parallel()

	calls := 0
	run := func(context.Context, string) (string, error) {
		calls++
		return "", nil
	}

	var out bytes.Buffer
	if err := runShell(context.Background(), strings.NewReader(":q\nbosch\n"), &out, run); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("run called %d times after :q", calls)
	}
}
