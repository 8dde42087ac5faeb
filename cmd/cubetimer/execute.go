package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/logging"
)

// errNoTerminal is returned when stdin cannot drive the interactive timer.
var errNoTerminal = errors.New("cubetimer: stdin is not a terminal")

// executeTime loads config, wires the timer and runs it until the user quits
// or a signal arrives.
func executeTime(parent context.Context, initial string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if initial != "" {
		if _, ok := cfg.Context(initial); !ok {
			return fmt.Errorf("unknown context %q", initial)
		}
	}
	if !term.IsTerminal(os.Stdin.Fd()) {
		return errNoTerminal
	}

	logCloser, err := logging.Setup(cfg.Log.Level, cfg.Log.File, nil)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	dir, err := workDir()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(parent)
	defer cancel()

	a, err := buildApp(ctx, cfg, clockwork.NewRealClock(), dir, initial)
	if err != nil {
		return err
	}
	defer a.close()

	log.Info().Str("store", cfg.Store.Path).Str("journal", a.journal.Path()).Msg("timer started")
	program := tea.NewProgram(a.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	return finishTUI(program)
}

// finishTUI runs the bubbletea program. Context cancellation is a normal
// shutdown (signal) and is not reported.
func finishTUI(program *tea.Program) error {
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
