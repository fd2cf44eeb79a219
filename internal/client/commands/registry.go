package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dragchess/internal/client/display"
	"dragchess/internal/client/session"
)

// ErrExit is returned by the exit command
var ErrExit = errors.New("exit requested")

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Group       string
	Description string
	Usage       string
	Handler     func(*session.Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *session.Session
	commands map[string]*Command
	order    []*Command
}

func NewRegistry(s *session.Session) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerUtilCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Group:       groupUtil,
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Group:       groupUtil,
		Description: "Exit the client",
		Usage:       "exit",
		Handler: func(*session.Session, []string) error {
			return ErrExit
		},
	})

	return r
}

const (
	groupGame = "Game Commands"
	groupAuth = "Auth Commands"
	groupUtil = "Utility Commands"
)

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
	r.order = append(r.order, cmd)
}

// Execute runs one input line. Command errors are printed; only ErrExit
// is returned.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	out := r.session.Out
	cmd, exists := r.commands[parts[0]]
	if !exists {
		fmt.Fprintf(out, "%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		fmt.Fprintln(out, "Type 'help' for available commands")
		return nil
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	err := cmd.Handler(r.session, parts[1:])
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		fmt.Fprintf(out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return nil
}

func (r *Registry) helpHandler(s *session.Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(s.Out, "%s - %s\n", display.Paint(display.Cyan, cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(s.Out, "Short form: %s\n", display.Paint(display.Cyan, cmd.ShortName))
		}
		fmt.Fprintf(s.Out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	groups := make(map[string][]*Command)
	for _, cmd := range r.order {
		groups[cmd.Group] = append(groups[cmd.Group], cmd)
	}
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	for _, g := range names {
		fmt.Fprintln(s.Out, display.Paint(display.Yellow, g+":"))
		for _, cmd := range groups[g] {
			fmt.Fprintf(s.Out, "  [%s] %-10s %s\n", display.Paint(display.Cyan, cmd.ShortName), cmd.Name, cmd.Description)
		}
		fmt.Fprintln(s.Out)
	}

	fmt.Fprintln(s.Out, "Type 'help <command>' for detailed usage")
	fmt.Fprintln(s.Out, "Add '-v' to any command for verbose output")
	return nil
}
