package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/printer"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config command and its subcommands to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "noticeq config validate [options]",
				Description: "Loads the configuration file and reports every invalid field.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "noticeq config show",
				Description: "Prints every portal's profile after defaults are applied, as YAML.",
				Action:      cmd.runShow,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationIssues flattens a Load error into per-field issues. Errors that
// are not field errors (unreadable or malformed files) become one issue.
func validationIssues(err error) []validationIssue {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationIssue{{Field: "file", Message: err.Error()}}
	}

	issues := make([]validationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load(cmd.flags.ConfigPath, cmd.flags.DataDir)
	issues := validationIssues(err)

	if cmd.format == "json" {
		out := struct {
			Valid  bool              `json:"valid"`
			Path   string            `json:"path"`
			Errors []validationIssue `json:"errors,omitempty"`
		}{
			Valid:  len(issues) == 0,
			Path:   cmd.flags.ConfigPath,
			Errors: issues,
		}

		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
		if len(issues) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)
	for _, issue := range issues {
		p.Errorf("%s: %s", issue.Field, issue.Message)
	}

	if len(issues) > 0 {
		p.Printf("")
		p.Errorf("%d error(s) found", len(issues))
		return cli.Exit("", 1)
	}

	p.Successf("portals: %d configured", len(cfg.Portals))
	p.Successf("theme: %s", cfg.Theme)
	if cfg.History.Enabled {
		p.Successf("history: enabled, %d entries per portal", cfg.History.MaxEntries)
	} else {
		p.Infof("history: disabled")
	}
	p.Printf("")
	p.Successf("Configuration is valid")
	return nil
}

// effectiveConfig mirrors config.Config with inherited portal profiles.
type effectiveConfig struct {
	Theme    string                    `yaml:"theme"`
	History  config.HistoryConfig      `yaml:"history"`
	Defaults config.Profile            `yaml:"defaults"`
	Portals  map[string]config.Profile `yaml:"portals"`
}

func (cmd *ConfigValidateCmd) runShow(_ context.Context, c *cli.Command) error {
	cfg, err := config.Load(cmd.flags.ConfigPath, cmd.flags.DataDir)
	if err != nil {
		return err
	}

	out := effectiveConfig{
		Theme:    cfg.Theme,
		History:  cfg.History,
		Defaults: cfg.Defaults,
		Portals:  make(map[string]config.Profile, len(cfg.Portals)),
	}
	for _, name := range cfg.PortalNames() {
		out.Portals[name], _ = cfg.Portal(name)
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = c.Root().Writer.Write(data)
	return err
}
