package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/forth"
	"github.com/timewinder-dev/forth/cas"
	"github.com/timewinder-dev/forth/interp"
	"github.com/timewinder-dev/forth/model"
)

const (
	historyFile = ".forth_history"
	prompt      = "forth> "
	replHelp    = `:words          list defined words
:see NAME       show the expansion of a word
:stack          show the current stack
:save           store the current state and print its hash
:restore HASH   return to a stored state
:undo           step back to the previous state
:quit           leave`
)

var (
	replStore string
	replCarry bool
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	Run:   replCommand,
}

func init() {
	replCmd.Flags().StringVar(&replStore, "store", "", "Persist saved states in this SQLite database")
	replCmd.Flags().BoolVar(&replCarry, "carry-stack", true, "Keep the stack between lines")
}

func replCommand(cmd *cobra.Command, args []string) {
	if code := repl(); code != 0 {
		os.Exit(code)
	}
}

// repl runs an interactive session and returns the process exit code.
func repl() int {
	var store cas.CAS = cas.NewMemoryCAS()
	if replStore != "" {
		s, err := cas.OpenSQLiteCAS(replStore)
		if err != nil {
			log.Error().Err(err).Msg("Couldn't open state store")
			return 1
		}
		defer s.Close()
		store = cas.NewLRUCache(s, 0)
	}

	sess, err := newSession(forth.New(forth.WithCarryStack(replCarry)), store, os.Stdout)
	if err != nil {
		log.Error().Err(err).Msg("Couldn't start session")
		return 1
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(sess.complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Println(color.Cyan.Sprint("forth " + version + ", :help for commands"))
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Msg("reading input")
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if sess.handle(line) {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// session is the REPL state behind the line editor. Every committed state
// is stored so that :undo and :restore can return to it.
type session struct {
	f       *forth.Forth
	store   cas.CAS
	out     io.Writer
	history []cas.Hash
}

func newSession(f *forth.Forth, store cas.CAS, out io.Writer) (*session, error) {
	s := &session{f: f, store: store, out: out}
	if _, err := s.commit(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) commit() (cas.Hash, error) {
	h, err := s.store.Put(s.f.Snapshot())
	if err != nil {
		return 0, err
	}
	if n := len(s.history); n == 0 || s.history[n-1] != h {
		s.history = append(s.history, h)
	}
	return h, nil
}

func (s *session) restore(h cas.Hash) error {
	state, err := cas.Retrieve[interp.State](s.store, h)
	if err != nil {
		return err
	}
	s.f.Restore(state)
	return nil
}

// handle evaluates one line of input and reports whether the session is over.
func (s *session) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) > 0 {
		if done, ok := s.meta(fields); ok {
			return done
		}
	}
	if err := s.f.Eval(line); err != nil {
		fmt.Fprintln(s.out, color.Red.Sprintf("error: %v", err))
		return false
	}
	if _, err := s.commit(); err != nil {
		fmt.Fprintln(s.out, color.Red.Sprintf("error: %v", err))
	}
	fmt.Fprintln(s.out, model.FormatStack(s.f.Stack())+color.Green.Sprint(" ok"))
	return false
}

// meta runs a REPL command. Lines that only look like commands, such as
// ": quit 1 ;", fall through to the interpreter.
func (s *session) meta(fields []string) (done bool, ok bool) {
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true, true
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":words":
		words := s.f.Words()
		if len(words) == 0 {
			fmt.Fprintln(s.out, color.Gray.Sprint("(no words)"))
			break
		}
		fmt.Fprintln(s.out, strings.Join(words, " "))
	case ":see":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, color.Red.Sprint("usage: :see NAME"))
			break
		}
		tokens, found := s.f.Definition(fields[1])
		if !found {
			fmt.Fprintln(s.out, color.Red.Sprintf("%s is not defined", fields[1]))
			break
		}
		fmt.Fprintf(s.out, ": %s %s ;\n", strings.ToLower(fields[1]), strings.Join(tokens, " "))
	case ":stack":
		fmt.Fprintln(s.out, model.FormatStack(s.f.Stack()))
	case ":save":
		h, err := s.commit()
		if err != nil {
			fmt.Fprintln(s.out, color.Red.Sprintf("error: %v", err))
			break
		}
		fmt.Fprintln(s.out, h)
	case ":restore":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, color.Red.Sprint("usage: :restore HASH"))
			break
		}
		h, err := cas.ParseHash(fields[1])
		if err == nil {
			err = s.restore(h)
		}
		if err == nil {
			_, err = s.commit()
		}
		if err != nil {
			fmt.Fprintln(s.out, color.Red.Sprintf("error: %v", err))
			break
		}
		fmt.Fprintln(s.out, model.FormatStack(s.f.Stack()))
	case ":undo":
		if len(s.history) < 2 {
			fmt.Fprintln(s.out, color.Gray.Sprint("nothing to undo"))
			break
		}
		prev := s.history[len(s.history)-2]
		if err := s.restore(prev); err != nil {
			fmt.Fprintln(s.out, color.Red.Sprintf("error: %v", err))
			break
		}
		s.history = s.history[:len(s.history)-1]
		fmt.Fprintln(s.out, model.FormatStack(s.f.Stack()))
	default:
		return false, false
	}
	return false, true
}

func (s *session) complete(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasSuffix(line, " ") {
		return nil
	}
	last := strings.ToLower(fields[len(fields)-1])
	prefix := line[:len(line)-len(fields[len(fields)-1])]
	var out []string
	for _, w := range append(s.f.Words(), "dup", "drop", "swap", "over") {
		if strings.HasPrefix(w, last) {
			out = append(out, prefix+w)
		}
	}
	return out
}
