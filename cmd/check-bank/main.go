package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stemsi/exstem-quiz/internal/repository"
	"github.com/stemsi/exstem-quiz/internal/validator"
	"golang.org/x/term"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

// check-bank validates a question bank file the same way the server loads it.
//
// Usage:
//
//	go run ./cmd/check-bank [path]
//
// The path defaults to data/questions.json.
func main() {
	path := "data/questions.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	validator.Setup()
	color := term.IsTerminal(int(os.Stdout.Fd()))

	os.Exit(run(os.Stdout, path, color))
}

func run(out io.Writer, path string, color bool) int {
	bank, err := repository.LoadBank(path)
	if err != nil {
		kind := "Error"
		var le *repository.LoadError
		if errors.As(err, &le) {
			kind = le.Kind.String()
		}
		printLine(out, color, colorRed, fmt.Sprintf("FAIL [%s] %v", kind, err))
		return 1
	}

	printLine(out, color, colorGreen, fmt.Sprintf("OK   %s: %d questions", path, bank.Len()))
	for i, q := range bank {
		img := ""
		if q.Image != "" {
			img = " (image: " + q.Image + ")"
		}
		fmt.Fprintf(out, "  %d. %s [%d options]%s\n", i+1, q.Text, len(q.Options), img)
	}
	return 0
}

func printLine(out io.Writer, color bool, code, line string) {
	if color {
		fmt.Fprintln(out, code+line+colorReset)
		return
	}
	fmt.Fprintln(out, line)
}
