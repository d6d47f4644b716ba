package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/goliatone/go-extjs/pkg/controller"
	"github.com/goliatone/go-extjs/pkg/proxy"
)

var errNoController = errors.New("controller name required")

func newProxyCommand(c *cli) *cobra.Command {
	var (
		area   string
		name   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "proxy [controller]",
		Short: "Print the JavaScript proxy of a controller",
		Long: `Print the <script> block declaring a proxy object with one function per
AJAX action of the controller. Without a controller argument on a terminal
the controller is chosen interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			controllerName := ""
			if len(args) == 1 {
				controllerName = args[0]
			} else {
				key, err := c.chooseController(app.Tree().List())
				if err != nil {
					return err
				}
				area, controllerName = splitKey(key)
			}
			if name == "" {
				name = proxy.CamelCase(controllerName) + "Proxy"
			}

			script, err := app.GenerateJSProxy(name, area, controllerName)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), script)
				return err
			}
			if err := os.WriteFile(output, []byte(script+"\n"), 0o644); err != nil {
				return fmt.Errorf("write proxy: %w", err)
			}
			c.logger.Info("proxy written", zap.String("file", output), zap.String("proxy", name))
			return nil
		},
	}

	cmd.Flags().StringVar(&area, "area", "", "area of the controller")
	cmd.Flags().StringVar(&name, "name", "", "JavaScript variable name (default <controller>Proxy)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	return cmd
}

// chooseController lists controllers exposing AJAX actions as "area/name"
// keys and asks the user to pick one.
func (c *cli) chooseController(descs []controller.Descriptor) (string, error) {
	if !c.interactive() {
		return "", errNoController
	}
	var options []string
	for _, desc := range descs {
		if len(desc.AjaxActions()) == 0 {
			continue
		}
		if desc.Area != "" {
			options = append(options, desc.Area+"/"+desc.Name)
		} else {
			options = append(options, desc.Name)
		}
	}
	if len(options) == 0 {
		return "", errors.New("no controller exposes ajax actions")
	}
	return c.pick(options)
}

func splitKey(key string) (string, string) {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return "", key
}

func surveyPick(options []string) (string, error) {
	var out string
	prompt := &survey.Select{
		Message: "Controller:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errors.New("cancelled")
		}
		return "", err
	}
	return out, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
