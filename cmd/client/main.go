package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tuannm99/seedsql/sqlclient"
)

const (
	prompt     = "seedsql> "
	contPrompt = "...> "
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:8867", "server address")
		timeout    = flag.Duration("timeout", 3*time.Second, "dial timeout")
		rwTimeout  = flag.Duration("rw-timeout", 10*time.Second, "per-request timeout")
		format     = flag.String("format", "sql", "output format: sql, json or yaml")
		histPath   = flag.String("history", defaultHistoryPath(), "history file path")
		histMax    = flag.Int("history-max", 2000, "max history lines loaded into memory")
		oneShotSQL = flag.String("c", "", "parse one source text and exit")
	)
	flag.Parse()

	if !validFormat(*format) {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	cli, err := sqlclient.Dial(*addr, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cli.Close() }()
	cli.SetRWTimeout(*rwTimeout)

	// one-shot mode
	if strings.TrimSpace(*oneShotSQL) != "" {
		doc, err := cli.Parse(*oneShotSQL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := printDocument(os.Stdout, doc, *format); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	h := NewHistory(*histPath)
	_ = h.Load(*histMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	var buf strings.Builder

	fmt.Printf("connected to %s\n", *addr)
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C clears current buffer
			if buf.Len() > 0 {
				buf.Reset()
				rl.SetPrompt(prompt)
				continue
			}
			fmt.Println("^C")
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && isMetaCommand(line) {
			fields := strings.Fields(line)
			switch fields[0] {
			case "\\q", "quit", "exit":
				return
			case "\\help":
				fmt.Println(`meta commands:
  \q | quit | exit       quit
  \history               print history
  \format [sql|json|yaml] show or set the output format
  \help                  show help

sql:
  end input with ';'; multiline is supported (the client waits for ';')`)
			case "\\history":
				h.Print(os.Stdout, 50)
			case "\\format":
				if len(fields) > 1 {
					if !validFormat(fields[1]) {
						fmt.Printf("unknown format %q\n", fields[1])
						continue
					}
					*format = fields[1]
				}
				fmt.Printf("format: %s\n", *format)
			default:
				fmt.Printf("unknown command: %s\n", line)
			}
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		if !statementComplete(buf.String()) {
			rl.SetPrompt(contPrompt)
			continue
		}

		src := strings.TrimSpace(buf.String())
		buf.Reset()
		rl.SetPrompt(prompt)

		_ = h.Append(src)
		_ = rl.SaveHistory(compactOneLine(src))

		doc, err := cli.Parse(src)
		if err != nil {
			var pe *sqlclient.ParseError
			if errors.As(err, &pe) {
				fmt.Printf("error: %v\n", pe)
				continue
			}
			fmt.Printf("connection error: %v\n", err)
			return
		}
		if err := printDocument(os.Stdout, doc, *format); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}
