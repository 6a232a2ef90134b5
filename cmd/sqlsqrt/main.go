/*
sqlsqrt is an interactive shell for Oracle databases.

	sqlsqrt -c localhost/XEPDB1 -u scott

SQL entered at the prompt is executed immediately; the first 20 rows print
and .it pages through the rest. Lines ending in a backslash continue on the
next prompt. When -p is not given the password is read with echo masked.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/sqlsqrt/sqlsqrt/driver/odpi"
	"github.com/sqlsqrt/sqlsqrt/ora"
	"github.com/sqlsqrt/sqlsqrt/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		connString string
		username   string
		password   string
		verbose    bool
		historyArg string
		help       bool
	)
	pflag.StringVarP(&connString, "connectionString", "c", "", "connection string to connect to oracle with")
	pflag.StringVarP(&username, "username", "u", "", "username to authenticate to Oracle with")
	pflag.StringVarP(&password, "password", "p", "", "password to authenticate to Oracle with (prompted when omitted)")
	pflag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	pflag.StringVar(&historyArg, "history", "", "history file location (default ~/.sqlsqrt_history)")
	pflag.BoolVarP(&help, "help", "h", false, "display command-line synopsis followed by the list of available options")
	pflag.Parse()

	if help {
		fmt.Printf("Synopsis: %s [OPTIONS]\nOptions:\n", filepath.Base(os.Args[0]))
		pflag.PrintDefaults()
		return 0
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "SQLsqrt > ",
		HistoryFile:            historyFile(historyArg, log),
		DisableAutoSaveHistory: true,
		AutoComplete:           completer(),
	})
	if err != nil {
		log.Error().Err(err).Msg("could not initialize line editing")
		return 1
	}
	defer rl.Close()

	if password == "" {
		pw, err := rl.ReadPassword("Password > ")
		if err != nil {
			log.Error().Err(err).Msg("could not read password")
			return 1
		}
		password = string(pw)
	}

	d, err := odpi.Load()
	if err != nil {
		log.Error().Err(err).Msg("could not load the Oracle client library")
		return 1
	}
	env, err := ora.NewEnv(d)
	if err != nil {
		fatalError(err)
		return 1
	}
	defer env.Close()

	conn, err := ora.Connect(env, ora.ConnOptions{
		Username:   username,
		Password:   password,
		ConnString: connString,
	})
	if err != nil {
		fatalError(err)
		return 1
	}
	defer conn.Close()

	sh := shell.New(conn, shell.Options{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Logger: log,
	})
	defer sh.Close()

	repl(rl, sh)
	return 0
}

// repl feeds complete lines to the shell until EOF, interrupt, or .exit.
// A trailing backslash continues the statement on the next prompt.
func repl(rl *readline.Instance, sh *shell.Shell) {
	var builder strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			return
		}

		if strings.HasSuffix(line, "\\") {
			builder.WriteString(strings.TrimSuffix(line, "\\"))
			rl.SetPrompt("SQLsqrt (cont.) > ")
			continue
		}
		builder.WriteString(line)
		rl.SetPrompt("SQLsqrt > ")

		full := builder.String()
		builder.Reset()

		quit, err := sh.Eval(full)
		if quit {
			return
		}
		// Only statements that executed cleanly earn a history entry.
		if err == nil && full != "" && !strings.HasPrefix(strings.TrimSpace(full), ".") {
			rl.SaveHistory(full)
		}
	}
}

func historyFile(arg string, log zerolog.Logger) string {
	if arg != "" {
		return arg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Debug().Err(err).Msg("home directory unknown, history disabled")
		return ""
	}
	return filepath.Join(home, ".sqlsqrt_history")
}

func completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".exit"),
		readline.PcItem(".help"),
		readline.PcItem(".it"),
		readline.PcItem(".describe"),
		readline.PcItem("SELECT"),
		readline.PcItem("INSERT"),
		readline.PcItem("UPDATE"),
		readline.PcItem("DELETE"),
		readline.PcItem("CREATE"),
		readline.PcItem("DROP"),
		readline.PcItem("FROM"),
		readline.PcItem("WHERE"),
		readline.PcItem("ORDER BY"),
	)
}

// fatalError mirrors the interactive error format for failures that happen
// before the prompt ever shows.
func fatalError(err error) {
	var oerr *ora.Error
	if errors.As(err, &oerr) && oerr.Info != nil {
		fmt.Fprintf(os.Stderr, "Fatal error %s: %s\n", oerr.Context, oerr.Info.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "Fatal error %s\n", err)
}
