package main

import (
	"fmt"
	"io"

	"tubescribe/internal/batch"
)

// consoleObserver renders batch progress as plain lines for the operator.
type consoleObserver struct {
	out io.Writer
}

func newConsoleObserver(out io.Writer) *consoleObserver {
	return &consoleObserver{out: out}
}

func (o *consoleObserver) OnJobStart(idx, total int, source string) {
	fmt.Fprintf(o.out, "[%d/%d] starting %s\n", idx, total, source)
}

func (o *consoleObserver) OnJobDone(idx, total int) {
	fmt.Fprintf(o.out, "[%d/%d] done\n", idx, total)
}

func (o *consoleObserver) OnJobError(idx, total int, message string) {
	fmt.Fprintf(o.out, "[%d/%d] error: %s\n", idx, total, message)
}

func (o *consoleObserver) OnBatchComplete(summary batch.Summary) {
	fmt.Fprintf(o.out, "%s\n", summary)
}
