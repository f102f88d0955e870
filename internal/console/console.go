// Package console implements the interactive chat loop.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/Kairi/gemini/internal/config"
	"github.com/Kairi/gemini/internal/gateway"
	"github.com/Kairi/gemini/internal/history"
)

// LineReader reads one line of input per call. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Renderer turns a model response into terminal output
type Renderer interface {
	Render(text string) (string, error)
}

// GatewayFactory builds a gateway for the configured API key
type GatewayFactory func(apiKey string) *gateway.Gateway

// Console drives the store and the gateway from line input. It handles one
// exchange at a time.
type Console struct {
	in            LineReader
	out           io.Writer
	store         *config.Store
	newGateway    GatewayFactory
	conversations *history.Store
	renderer      Renderer
	log           zerolog.Logger

	turns  []gateway.Turn
	thread string
}

// Deps are the collaborators a Console needs. Conversations and Renderer
// are optional.
type Deps struct {
	In            LineReader
	Out           io.Writer
	Store         *config.Store
	NewGateway    GatewayFactory
	Conversations *history.Store
	Renderer      Renderer
	Logger        zerolog.Logger
}

// New creates a Console
func New(d Deps) *Console {
	r := d.Renderer
	if r == nil {
		r = PlainRenderer{}
	}
	return &Console{
		in:            d.In,
		out:           d.Out,
		store:         d.Store,
		newGateway:    d.NewGateway,
		conversations: d.Conversations,
		renderer:      r,
		log:           d.Logger,
	}
}

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

// Run prints the banner and reads commands until /quit, /exit, end of input
// or ctx is done. It returns nil on a normal exit.
func (c *Console) Run(ctx context.Context) error {
	c.printBanner()

	if !c.store.Config().HasAPIKey() {
		c.warnf("No API key configured. Please use /setkey to enter your API key.")
		if err := c.handleSetKey(); err != nil {
			return quitOrErr(err)
		}
	} else {
		c.successf("API key is configured. Current model: %s", c.store.Config().SelectedModel)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.printf("\n")
		line, err := c.in.Prompt("You: ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			return quitOrErr(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.in.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			err = c.handleCommand(line)
		} else {
			c.handleChat(ctx, line)
		}
		if err != nil {
			return quitOrErr(err)
		}
	}
}

func quitOrErr(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) handleCommand(line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "/help":
		c.printHelp()
	case "/models":
		c.showModels()
	case "/setkey":
		return c.handleSetKey()
	case "/model":
		return c.handleChangeModel()
	case "/temperature":
		return c.handleTemperature()
	case "/maxtokens":
		return c.handleMaxTokens()
	case "/config":
		c.showConfig()
	case "/new":
		c.handleNew()
	case "/save":
		c.handleSave(arg)
	case "/load":
		c.handleLoad(arg)
	case "/list":
		c.handleList()
	case "/quit", "/exit":
		c.printf("Goodbye!\n")
		return errQuit
	default:
		c.errorf("Unknown command: %s. Type /help for available commands.", line)
	}
	return nil
}

func (c *Console) handleChat(ctx context.Context, prompt string) {
	cfg := c.store.Config()
	if !cfg.HasAPIKey() {
		c.errorf("No API key configured. Please use /setkey to enter your API key.")
		return
	}

	c.printf("%s\n", dimStyle.Render("..."))
	params := gateway.GenerationParams{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
	ex, err := c.newGateway(cfg.APIKey).Exchange(ctx, c.turns, prompt, cfg.SelectedModel, params)
	if err != nil {
		c.log.Debug().Err(err).Str("model", cfg.SelectedModel).Msg("generation failed")
		c.errorf("Error: %v", err)
		return
	}
	c.turns = append(c.turns,
		gateway.Turn{Role: gateway.RoleUser, Text: ex.Prompt},
		gateway.Turn{Role: gateway.RoleModel, Text: ex.ResponseText},
	)
	c.printResponse(ex.ModelID, ex.ResponseText)
}

func (c *Console) printResponse(model, text string) {
	rendered, err := c.renderer.Render(text)
	if err != nil {
		c.log.Debug().Err(err).Msg("render failed, printing raw response")
		rendered = text
	}
	c.printf("%s %s\n", modelStyle.Render(fmt.Sprintf("Gemini (%s):", model)), rendered)
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) errorf(format string, a ...any) {
	c.printf("%s\n", errorStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) warnf(format string, a ...any) {
	c.printf("%s\n", warnStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) successf(format string, a ...any) {
	c.printf("%s\n", successStyle.Render(fmt.Sprintf(format, a...)))
}
