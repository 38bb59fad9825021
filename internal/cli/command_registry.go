package cli

import (
	"context"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
)

// Command represents a CLI command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry holds the lifecycle action commands, one per domain
// action, in lifecycle order.
type CommandRegistry struct {
	commands map[string]Command
	order    []string
}

// NewCommandRegistry registers an ActionCommand for every domain action
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	for _, action := range domain.Actions {
		registry.Register(string(action), NewActionCommand(app, action))
	}

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = command
}

// Names returns the registered command names in registration order
func (r *CommandRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}
