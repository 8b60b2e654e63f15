package registry

import (
	"fmt"

	cfg "github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/urfave/cli/v3"
)

type CommandFactory interface {
	CreateCommand(t *i18n.Translations, cfg *cfg.Config) *cli.Command
}

// Registry builds the top-level commands in registration order.
type Registry struct {
	factories map[string]CommandFactory
	order     []string
	config    *cfg.Config
	t         *i18n.Translations
}

func NewRegistry(cfg *cfg.Config, t *i18n.Translations) *Registry {
	return &Registry{
		factories: make(map[string]CommandFactory),
		config:    cfg,
		t:         t,
	}
}

func (r *Registry) Register(name string, factory CommandFactory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("command factory %q already registered", name)
	}
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) CreateCommands() []*cli.Command {
	commands := make([]*cli.Command, 0, len(r.order))
	for _, name := range r.order {
		commands = append(commands, r.factories[name].CreateCommand(r.t, r.config))
	}
	return commands
}
