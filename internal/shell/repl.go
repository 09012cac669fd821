// Package shell is the interactive front end: a readline prompt feeding
// command lines to a conn.Engine and printing the responses.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/tobsdb/pdb/internal/command"
	"github.com/tobsdb/pdb/internal/conn"
	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/storage"
	"github.com/tobsdb/pdb/pkg"
)

const PROMPT = "pdb> "

// LineReader is the part of *readline.Instance the shell uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type Shell struct {
	engine *conn.Engine
	reader LineReader
	out    io.Writer
}

// New starts a readline backed shell over provider. history_file may be empty.
func New(provider storage.Provider, history_file string) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          PROMPT,
		HistoryFile:     history_file,
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shell: %w", err)
	}
	return NewWithReader(provider, rl, rl.Stdout()), nil
}

func NewWithReader(provider storage.Provider, reader LineReader, out io.Writer) *Shell {
	if out == nil {
		out = os.Stdout
	}
	s := &Shell{reader: reader, out: out}
	s.engine = conn.NewEngine(provider, s)
	return s
}

func (s *Shell) Engine() *conn.Engine { return s.engine }

func (s *Shell) Close() error {
	if c, ok := s.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(command.ACTIONS))
	for _, action := range command.ACTIONS {
		switch action {
		case command.ActionInsert:
			items = append(items, readline.PcItem("insert into"))
		case command.ActionSelect:
			items = append(items, readline.PcItem("select from"))
		case command.ActionDelete:
			items = append(items, readline.PcItem("delete from"))
		default:
			items = append(items, readline.PcItem(string(action)))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// Confirm asks on the prompt before a destructive action. Anything other
// than y or yes refuses.
func (s *Shell) Confirm(action command.Action, table string) bool {
	s.reader.SetPrompt(fmt.Sprintf("Are you sure you want to %s %q? [y/n]: ", describe(action), table))
	defer s.reader.SetPrompt(PROMPT)

	answer, err := s.reader.Readline()
	if err != nil {
		return false
	}
	return IsYes(answer)
}

func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func describe(action command.Action) string {
	switch action {
	case command.ActionDropTable:
		return "drop table"
	case command.ActionDelete:
		return "delete rows from"
	}
	return string(action)
}

// Run reads commands until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "***pdb***")
	fmt.Fprintln(s.out, conn.HelpText)
	fmt.Fprintln(s.out)

	for ctx.Err() == nil {
		line, err := s.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			pkg.DebugLog(err)
			Render(s.out, "", conn.NewErrorResponse(errs.Status(err), err.Error()))
			continue
		}

		Render(s.out, cmd.Action, s.engine.Execute(ctx, cmd))
		if cmd.Action == command.ActionExit {
			return nil
		}
	}
	return ctx.Err()
}
