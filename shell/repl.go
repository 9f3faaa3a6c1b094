package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sagarc03/mydropbox"
)

// ErrInvalidCommand is reported for unknown verbs and wrong argument counts.
var ErrInvalidCommand = errors.New("invalid command")

// Executor is the operation surface the shell dispatches to.
// *mydropbox.Service satisfies it.
type Executor interface {
	Register(ctx context.Context, username, secret, confirmation string) error
	Login(ctx context.Context, session *mydropbox.Session, username, secret string) error
	Logout(ctx context.Context, session *mydropbox.Session) error
	View(ctx context.Context, owner string) ([]mydropbox.FileRecord, error)
	Upload(ctx context.Context, fileName, owner string) (mydropbox.UploadResult, error)
	Download(ctx context.Context, fileName, owner string) (mydropbox.DownloadResult, error)
	Share(ctx context.Context, fileName, recipient string) error
}

// commandArgs is the exact argument count of each verb.
var commandArgs = map[string]int{
	"newuser": 1,
	"login":   2,
	"logout":  0,
	"put":     1,
	"get":     2,
	"view":    0,
	"share":   2,
	"quit":    0,
	"help":    0,
}

const separator = "============================================"

const usage = `Welcome to myDropbox Application
` + separator + `
Available commands:
  - newuser username: Create a new user
  - login username password: Login to your account
  - logout: Logout from your account
  - put filename: Upload a file
  - get filename owner: Download a file
  - view: List your files
  - share filename recipient: Share a file with another user
  - help: Show this list
  - quit: Exit the program
` + separator

// Shell is the interactive command loop. It owns the session for its lifetime.
type Shell struct {
	exec      Executor
	session   *mydropbox.Session
	in        io.Reader
	out       io.Writer
	formatter Formatter
	prompter  Prompter
	logger    *slog.Logger

	requests chan struct{}
	lines    chan string
	scanErr  error
}

// Option configures a Shell.
type Option func(*Shell)

// WithInput sets where command lines are read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(s *Shell) {
		s.in = r
	}
}

// WithOutput sets where results are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithFormatter sets the result formatter. Defaults to text output.
func WithFormatter(f Formatter) Option {
	return func(s *Shell) {
		s.formatter = f
	}
}

// WithPrompter sets how passwords are asked for. Without one, passwords are
// read as the next input lines.
func WithPrompter(p Prompter) Option {
	return func(s *Shell) {
		s.prompter = p
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// New creates a Shell dispatching to exec. A nil session starts anonymous.
func New(exec Executor, session *mydropbox.Session, opts ...Option) *Shell {
	if session == nil {
		session = mydropbox.NewSession()
	}

	s := &Shell{
		exec:      exec,
		session:   session,
		in:        os.Stdin,
		out:       os.Stdout,
		formatter: &HumanFormatter{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Session returns the session the shell operates on.
func (s *Shell) Session() *mydropbox.Session {
	return s.session
}

// Run prints the banner and executes commands until quit, end of input or
// ctx is cancelled. End of input and quit return nil.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.startReader(ctx)

	_ = s.formatter.FormatNotice(s.out, usage)

	for {
		s.printText(s.Prompt())

		line, err := s.nextLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.printText("\n")
				return nil
			}
			return err
		}

		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// Prompt returns the input prompt, prefixed with the user when logged in.
func (s *Shell) Prompt() string {
	if username := s.session.Username(); username != "" {
		return username + " >> "
	}
	return ">> "
}

// Execute runs one command line and reports whether the shell should stop.
// Failures are printed and never end the loop.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	verb, args := fields[0], fields[1:]
	if want, ok := commandArgs[verb]; !ok || len(args) != want {
		s.fail(ctx, verb, ErrInvalidCommand)
		return false
	}

	var err error
	switch verb {
	case "quit":
		_ = s.formatter.FormatNotice(s.out, separator)
		return true
	case "help":
		s.printText(usage + "\n")
	case "newuser":
		err = s.newUser(ctx, args[0])
	case "login":
		err = s.login(ctx, args[0], args[1])
	case "logout":
		err = s.logout(ctx)
	case "put":
		err = s.put(ctx, args[0])
	case "get":
		err = s.get(ctx, args[0], args[1])
	case "view":
		err = s.view(ctx)
	case "share":
		err = s.share(ctx, args[0], args[1])
	}

	if err != nil {
		s.fail(ctx, verb, err)
	}
	return false
}

func (s *Shell) newUser(ctx context.Context, username string) error {
	_ = s.formatter.FormatNotice(s.out, "Creating a new user => "+username)

	secret, err := s.secret(ctx, "Enter password")
	if err != nil {
		return err
	}
	confirmation, err := s.secret(ctx, "Confirm password")
	if err != nil {
		return err
	}

	if err := s.exec.Register(ctx, username, secret, confirmation); err != nil {
		return err
	}
	return s.formatter.FormatAccount(s.out, mydropbox.AccountResult{
		Action:   mydropbox.ActionRegister,
		Username: username,
	})
}

func (s *Shell) login(ctx context.Context, username, secret string) error {
	if err := s.exec.Login(ctx, s.session, username, secret); err != nil {
		return err
	}
	return s.formatter.FormatAccount(s.out, mydropbox.AccountResult{
		Action:   mydropbox.ActionLogin,
		Username: username,
	})
}

func (s *Shell) logout(ctx context.Context) error {
	username := s.session.Username()
	if err := s.exec.Logout(ctx, s.session); err != nil {
		return err
	}
	return s.formatter.FormatAccount(s.out, mydropbox.AccountResult{
		Action:   mydropbox.ActionLogout,
		Username: username,
	})
}

func (s *Shell) put(ctx context.Context, fileName string) error {
	result, err := s.exec.Upload(ctx, fileName, s.session.Username())
	if err != nil {
		return err
	}
	return s.formatter.FormatUpload(s.out, result)
}

func (s *Shell) get(ctx context.Context, fileName, owner string) error {
	result, err := s.exec.Download(ctx, fileName, owner)
	if err != nil {
		return err
	}

	_ = s.formatter.FormatNotice(s.out, "Downloading file...")
	return s.formatter.FormatDownload(s.out, result)
}

// view lists the current user's files. A failed listing is shown as an
// empty one; only a missing owner is reported as an error.
func (s *Shell) view(ctx context.Context) error {
	owner := s.session.Username()

	files, err := s.exec.View(ctx, owner)
	if err != nil {
		if errors.Is(err, mydropbox.ErrEmptyOwner) {
			return err
		}
		s.logger.DebugContext(ctx, "listing failed", "owner", owner, "err", err)
		files = nil
	}
	return s.formatter.FormatList(s.out, owner, files)
}

func (s *Shell) share(ctx context.Context, fileName, recipient string) error {
	if !s.session.IsAuthenticated() {
		return mydropbox.ErrNotLoggedIn
	}

	if err := s.exec.Share(ctx, fileName, recipient); err != nil {
		return err
	}
	return s.formatter.FormatShare(s.out, mydropbox.ShareRequest{
		FileName:  fileName,
		Recipient: recipient,
	})
}

// printText writes interactive text such as prompts. It is dropped when
// results are emitted as JSON or YAML documents.
func (s *Shell) printText(text string) {
	if _, ok := s.formatter.(*HumanFormatter); !ok {
		return
	}
	_, _ = fmt.Fprint(s.out, text)
}

func (s *Shell) fail(ctx context.Context, verb string, err error) {
	s.logger.DebugContext(ctx, "command failed", "command", verb, "err", err)
	_ = s.formatter.FormatError(s.out, err)
}

// secret asks for a password with the configured prompter, or reads the next
// input line.
func (s *Shell) secret(ctx context.Context, label string) (string, error) {
	if s.prompter != nil {
		return s.prompter.Secret(label)
	}

	s.printText(label + ": ")
	line, err := s.nextLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrPromptCancelled
		}
		return "", err
	}
	return line, nil
}

// startReader scans input lines on a goroutine so that a cancelled ctx
// unblocks the loop. A line is only scanned when nextLine asks for one, so
// the input is left alone while a Prompter owns the terminal.
func (s *Shell) startReader(ctx context.Context) {
	requests := make(chan struct{})
	lines := make(chan string)
	s.requests, s.lines = requests, lines

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(s.in)
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
			}

			if !scanner.Scan() {
				s.scanErr = scanner.Err()
				return
			}

			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Shell) nextLine(ctx context.Context) (string, error) {
	if s.lines == nil {
		return "", io.EOF
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", s.inputEnded()
		}
		return line, nil
	case s.requests <- struct{}{}:
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", s.inputEnded()
		}
		return line, nil
	}
}

func (s *Shell) inputEnded() error {
	if s.scanErr != nil {
		return fmt.Errorf("read input: %w", s.scanErr)
	}
	return io.EOF
}
