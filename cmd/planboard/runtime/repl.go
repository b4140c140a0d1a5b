package runtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harunnryd/planboard/internal/concurrency"
	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/logger"
	"github.com/harunnryd/planboard/internal/render"
	"github.com/harunnryd/planboard/internal/workflow"

	"github.com/google/shlex"
	"github.com/oklog/ulid/v2"
)

const boardHelp = `Commands:
  generate   request a new draft schedule (replaces the held draft)
  publish    publish the held draft
  show       print the held draft
  discard    drop the held draft
  status     show the board state and which actions are available
  help       show this help
  exit       leave the board (the draft is discarded)`

// BoardREPL is the interactive planning board. The draft it holds lives only
// as long as the REPL does.
type BoardREPL struct {
	components *Components
	workflow   *workflow.Workflow
	reader     *bufio.Reader
	out        io.Writer
	viewID     string
}

func NewBoardREPL(components *Components, in io.Reader, out io.Writer) *BoardREPL {
	return &BoardREPL{
		components: components,
		workflow:   components.NewWorkflow(),
		reader:     bufio.NewReader(in),
		out:        out,
		viewID:     ulid.Make().String(),
	}
}

func (r *BoardREPL) Workflow() *workflow.Workflow {
	return r.workflow
}

// Start runs the board until exit, end of input or cancellation of the
// components context. Input is read on its own goroutine so cancellation
// does not wait for the next line.
func (r *BoardREPL) Start() error {
	defer r.workflow.Discard()

	snap := r.components.Session.Snapshot()
	fmt.Fprintf(r.out, "Planning board (%s, %s)\n", snap.DisplayName, snap.Role)
	fmt.Fprintln(r.out, "Type 'help' for commands, 'exit' to leave.")

	lines := make(chan inputLine)
	stop := make(chan struct{})
	defer close(stop)
	concurrency.SafeGo("board-input", func() { r.readInput(lines, stop) }, nil)

	for {
		fmt.Fprint(r.out, "board> ")
		select {
		case <-r.components.Ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := r.handleLine(line); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				fmt.Fprintln(r.out, render.Failure(err.Error()))
			}
		}
	}
}

type inputLine struct {
	text string
	err  error
}

// readInput forwards lines until the reader fails or stop is closed. A final
// line without a newline is still delivered; lines is closed on the way out.
func (r *BoardREPL) readInput(lines chan<- inputLine, stop <-chan struct{}) {
	defer close(lines)
	for {
		text, err := r.reader.ReadString('\n')
		if err != nil && strings.TrimSpace(text) == "" {
			if !errors.Is(err, io.EOF) {
				select {
				case lines <- inputLine{err: err}:
				case <-stop:
				}
			}
			return
		}

		select {
		case lines <- inputLine{text: text}:
		case <-stop:
			return
		}
		if err != nil {
			return
		}
	}
}

func (r *BoardREPL) handleLine(line inputLine) error {
	if line.err != nil {
		return line.err
	}

	args, err := shlex.Split(strings.TrimSpace(line.text))
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}
	if len(args) == 0 {
		return nil
	}
	return r.Execute(args[0])
}

// Execute runs one board command. It returns io.EOF for exit.
func (r *BoardREPL) Execute(command string) error {
	switch strings.ToLower(command) {
	case "generate", "g":
		return r.generate()
	case "publish", "p":
		return r.publish()
	case "show", "s":
		return r.show()
	case "discard", "d":
		r.workflow.Discard()
		fmt.Fprintln(r.out, "Draft discarded.")
		return nil
	case "status", "st":
		r.status()
		return nil
	case "help", "h", "?":
		fmt.Fprintln(r.out, boardHelp)
		return nil
	case "exit", "quit", "/exit":
		return io.EOF
	default:
		return fmt.Errorf("unknown command %q, type 'help'", command)
	}
}

func (r *BoardREPL) generate() error {
	ctx := logger.WithViewID(r.components.Ctx, r.viewID)
	err := r.workflow.Generate(ctx)
	r.printNotice(err)
	if err != nil {
		return nil
	}
	return r.show()
}

func (r *BoardREPL) publish() error {
	ctx := logger.WithViewID(r.components.Ctx, r.viewID)
	err := r.workflow.Publish(ctx)
	switch {
	case perrors.IsCategory(err, perrors.ErrNoDraft):
		fmt.Fprintln(r.out, "No draft to publish. Run 'generate' first.")
		return nil
	case perrors.IsCategory(err, perrors.ErrBusy):
		fmt.Fprintln(r.out, "Another request is still running.")
		return nil
	}
	r.printNotice(err)
	return nil
}

func (r *BoardREPL) show() error {
	d, ok := r.workflow.Draft()
	if !ok {
		fmt.Fprintln(r.out, "No draft held.")
		return nil
	}
	out, err := r.components.Renderer.Draft(render.NewDraftView(d, r.workflow.DisplayItems()))
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, out)
	return nil
}

func (r *BoardREPL) status() {
	fmt.Fprintf(r.out, "State: %s\n", r.workflow.State())
	fmt.Fprintf(r.out, "Generate: %s\n", availability(r.workflow.CanGenerate()))
	fmt.Fprintf(r.out, "Publish: %s\n", availability(r.workflow.CanPublish()))
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}

func (r *BoardREPL) printNotice(err error) {
	notice := r.workflow.Notice()
	switch notice.Level {
	case workflow.LevelSuccess:
		fmt.Fprintln(r.out, render.Success(notice.Text))
	case workflow.LevelError:
		fmt.Fprintln(r.out, render.Failure(notice.Text))
	}
	if err == nil {
		return
	}
	fmt.Fprintln(r.out, render.Muted(hintFor(err)))
}

// hintFor turns a boundary error into a next step for the user.
func hintFor(err error) string {
	switch {
	case perrors.IsCategory(err, perrors.ErrUnauthorized):
		return "Your session was rejected. Run 'planboard login' again."
	case perrors.IsCategory(err, perrors.ErrForbidden):
		return "Your role may not perform this action."
	case perrors.IsCategory(err, perrors.ErrTransient):
		return "The scheduling service is unreachable. Try again."
	default:
		return err.Error()
	}
}
