package main

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/config"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/dispatch"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/display"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/input"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/notify"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/observe"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/records"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store/sqlite"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/panels"
)

// queueBuffer bounds how many finished store calls may wait for the UI loop.
const queueBuffer = 16

// app is a fully wired timer: every component shares one bus and the TUI
// model drives them.
type app struct {
	model   tui.Model
	bus     *bus.Bus
	clock   *attempt.Clock
	store   *sqlite.Store
	journal *journal.JSONL
	queue   *dispatch.Queue
	// stop abandons continuations nobody will drain anymore.
	stop context.CancelFunc
}

// buildApp opens the store and session journal and wires the attempt clock,
// input sources, persistence, observers and the TUI onto one bus.
func buildApp(ctx context.Context, cfg *config.Config, clk clockwork.Clock, dir, initial string) (*app, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	summaries, err := st.Contexts(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	items := make([]panels.ContextItem, len(summaries))
	for i, s := range summaries {
		items[i] = panels.ContextItem{
			ID:       s.ID,
			Name:     s.Name,
			Puzzle:   s.Puzzle,
			Recorded: s.Recorded,
			Attempts: s.Attempts,
		}
	}

	if err := journal.EnforceRetention(cfg.Journal.Dir, cfg.Journal.Retention); err != nil {
		log.Warn().Err(err).Msg("journal retention failed")
	}
	jl, err := journal.NewJSONL(cfg.Journal.Dir, clk)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	b := bus.New()
	coord := input.NewCoordinator(cfg.Timer.ActivationKey)
	clock := attempt.New(cfg.AttemptSettings(), b, clk, coord)
	coord.Bind(clock)

	history := input.NewHistory(tui.PageContexts, nil)
	coord.BindCancel(history)
	cancelKey := input.NewKeyBinding(cfg.Timer.CancelKey)
	cancelKey.Bind(func() bool {
		if !clock.Live() {
			return false
		}
		clock.Abort()
		return true
	})

	// Saves already started finish after a signal; the store timeout bounds
	// them.
	saveCtx := context.WithoutCancel(ctx)
	deliverCtx, stop := context.WithCancel(saveCtx)
	queue := dispatch.NewQueue(deliverCtx, queueBuffer)
	sync := records.New(saveCtx, st, queue, b, cfg.StoreTimeout())

	recorder := journal.NewRecorder(b, jl, clk)
	if cfg.Notifications.URL != "" {
		notify.New(
			cfg.Notifications.URL,
			"cubetimer",
			cfg.Notifications.OnComplete,
			cfg.Notifications.OnError,
			cfg.Notifications.OnResult,
		).Attach(b)
	}

	model := tui.New(tui.Deps{
		Bus:           b,
		Clock:         clock,
		Coordinator:   coord,
		Repeat:        input.NewRepeatDetector(clk, cfg.KeyHoldWindow()),
		History:       history,
		Cancel:        cancelKey,
		Projector:     display.NewProjector(b, cfg.DisplayOptions()),
		Cards:         observe.NewCards(b, 0),
		Screens:       observe.NewScreens(b),
		Notices:       observe.NewNotices(b),
		Continuations: queue.C(),
		Sync:          sync,
		Journal:       jl,
		Entries:       recorder,
		Contexts:      items,
		Initial:       initial,
		AccentColor:   cfg.TUI.AccentColor,
		WorkDir:       dir,
		TickInterval:  cfg.TickInterval(),
		Now:           clk,
	})

	return &app{
		model:   model,
		bus:     b,
		clock:   clock,
		store:   st,
		journal: jl,
		queue:   queue,
		stop:    stop,
	}, nil
}

// close waits for in-flight store calls, then releases the journal and store.
func (a *app) close() {
	a.stop()
	a.queue.Wait()
	if err := a.journal.Close(); err != nil {
		log.Warn().Err(err).Msg("close journal")
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("close store")
	}
}
