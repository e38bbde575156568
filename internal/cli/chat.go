package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/kitchen"
	"github.com/aretw0/kitchen/internal/presentation/tui"
	"github.com/aretw0/kitchen/internal/sanitize"
	"github.com/aretw0/kitchen/pkg/domain"
)

// ChatOptions configures an interactive chat session.
type ChatOptions struct {
	UserID string
	In     io.Reader
	Out    io.Writer
	Render tui.Renderer
}

const chatHelp = `Talk to the kitchen helper in plain words, e.g. "hello", "cook yogurt",
"status", "next", "cancel the recipe", "simulate", "stop".
Commands:
  :temp <celsius>   move the simulated probe
  :session          show the stored session
  :quit             leave`

// Chat runs a line-oriented conversation until EOF, :quit or ctx is cancelled.
func Chat(ctx context.Context, rt *Runtime, opts ChatOptions) error {
	if opts.Render == nil {
		opts.Render = tui.Plain
	}
	out := opts.Out

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(opts.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	defer func() {
		// The platform sends SessionEnded when the user walks away.
		_, _ = rt.Engine.HandleTurn(context.WithoutCancel(ctx), kitchen.TurnRequest{
			UserID: opts.UserID,
			Intent: domain.IntentSessionEnded,
		})
	}()

	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		clean, err := sanitize.Input(line)
		if err != nil {
			printSystemMessage(out, "Input rejected: %v", err)
			continue
		}
		clean = strings.TrimSpace(clean)
		if clean == "" {
			continue
		}

		if strings.HasPrefix(clean, ":") || clean == "quit" || clean == "exit" {
			quit, err := runCommand(ctx, rt, opts, clean)
			if err != nil {
				printSystemMessage(out, "%v", err)
			}
			if quit {
				return nil
			}
			continue
		}

		u, ok := Classify(clean)
		if !ok {
			printSystemMessage(out, "Sorry, I didn't catch that. Try \"help\" or \":help\".")
			continue
		}
		if u.Slots, err = sanitize.Slots(u.Slots); err != nil {
			printSystemMessage(out, "Input rejected: %v", err)
			continue
		}

		res, err := rt.Engine.HandleTurn(ctx, kitchen.TurnRequest{UserID: opts.UserID, Intent: u.Intent, Slots: u.Slots})
		if err != nil {
			printSystemMessage(out, "%v", err)
			continue
		}
		fmt.Fprint(out, opts.Render(res.Response))
		if res.Response.EndsSession() {
			printSystemMessage(out, "Conversation closed. Say \"hello\" to start again.")
		}
	}
}

func runCommand(ctx context.Context, rt *Runtime, opts ChatOptions, cmd string) (bool, error) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q", "quit", "exit":
		return true, nil
	case ":help", ":h":
		fmt.Fprintln(opts.Out, chatHelp)
		return false, nil
	case ":session":
		s, err := rt.Engine.Sessions().Load(ctx, opts.UserID)
		if err != nil {
			return false, err
		}
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return false, err
		}
		fmt.Fprintln(opts.Out, string(data))
		return false, nil
	case ":temp":
		if len(fields) != 2 {
			return false, errors.New("usage: :temp <celsius>")
		}
		celsius, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, fmt.Errorf("invalid temperature %q", fields[1])
		}
		device, err := SetTemperature(ctx, rt, opts.UserID, celsius)
		if err != nil {
			return false, err
		}
		printSystemMessage(opts.Out, "%s now reads %.1f°C.", device, celsius)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

// SetTemperature moves the probe of the user's simulated thermometer.
func SetTemperature(ctx context.Context, rt *Runtime, userID string, celsius float64) (string, error) {
	thermo, ok := rt.Thermometer()
	if !ok {
		return "", errors.New("the configured shadow is not simulated")
	}
	device, err := rt.Registry.Resolve(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("no thermometer for %s: %w", userID, err)
	}
	return device, thermo.SetTemperature(ctx, device, celsius)
}
