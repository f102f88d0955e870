package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Kairi/gemini/internal/console"
	"github.com/Kairi/gemini/internal/history"
	"github.com/Kairi/gemini/internal/server"
)

func (a *app) runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := a.openStore()
	defer closeStore()
	if err != nil {
		return err
	}
	newGateway, err := a.gatewayFactory(ctx)
	if err != nil {
		return err
	}

	lineFile, err := history.LineHistoryFile()
	if err != nil {
		a.log.Warn().Err(err).Msg("prompt history disabled")
		lineFile = ""
	}
	rl := console.NewLiner(lineFile)
	defer func() {
		if err := console.SaveLineHistory(rl, lineFile); err != nil {
			a.log.Warn().Err(err).Msg("failed to save prompt history")
		}
		rl.Close()
	}()

	renderer, err := console.NewRenderer(80)
	if err != nil {
		a.log.Warn().Err(err).Msg("falling back to plain output")
		renderer = console.PlainRenderer{}
	}

	c := console.New(console.Deps{
		In:            rl,
		Out:           os.Stdout,
		Store:         store,
		NewGateway:    newGateway,
		Conversations: history.NewStore(history.DefaultDir()),
		Renderer:      renderer,
		Logger:        a.log,
	})
	return c.Run(ctx)
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	if err := loadDotEnv(a.settings.ConfigFile); err != nil {
		a.log.Warn().Err(err).Str("file", a.settings.ConfigFile).Msg("failed to load environment file")
	}
	// values from the file apply unless a flag overrides them
	if err := a.setup(cmd); err != nil {
		return err
	}

	store, closeStore, err := a.openStore()
	defer closeStore()
	if err != nil {
		return err
	}
	newGateway, err := a.gatewayFactory(cmd.Context())
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(store, newGateway, a.log)
	return srv.ListenAndServe(cmd.Context(), ":"+a.settings.Port)
}
