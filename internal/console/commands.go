package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/Kairi/gemini/internal/catalog"
	"github.com/Kairi/gemini/internal/config"
)

var commands = []struct{ name, help string }{
	{"/help", "Show this help message"},
	{"/models", "List available models with details"},
	{"/setkey", "Set your API key"},
	{"/model", "Change the current model"},
	{"/temperature", "Change the generation temperature (0-2)"},
	{"/maxtokens", "Change the maximum number of generated tokens"},
	{"/config", "Show the current configuration"},
	{"/new", "Start a new conversation"},
	{"/save <name>", "Save the current conversation"},
	{"/load <name>", "Load a saved conversation"},
	{"/list", "List saved conversations"},
	{"/quit", "Exit the application"},
}

func (c *Console) printBanner() {
	c.printf("%s\n", titleStyle.Render("=== Gemini API Client CLI ==="))
	c.printCommands()
}

func (c *Console) printHelp() {
	c.printf("\nAvailable commands:\n")
	c.printCommands()
}

func (c *Console) printCommands() {
	for _, cmd := range commands {
		c.printf("  %-14s - %s\n", cmd.name, cmd.help)
	}
	c.printf("\n")
}

// ask prompts for a single answer. Ctrl-C yields ok == false and a nil error.
func (c *Console) ask(prompt string) (answer string, ok bool, err error) {
	answer, err = c.in.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		c.printf("Cancelled.\n")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(answer), true, nil
}

func (c *Console) askSecret(prompt string) (string, bool, error) {
	answer, err := c.in.PasswordPrompt(prompt)
	if errors.Is(err, liner.ErrNotTerminalOutput) {
		return c.ask(prompt)
	}
	if errors.Is(err, liner.ErrPromptAborted) {
		c.printf("Cancelled.\n")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(answer), true, nil
}

func (c *Console) handleSetKey() error {
	key, ok, err := c.askSecret("Enter your Gemini API key: ")
	if err != nil || !ok {
		return err
	}
	if !config.ValidateAPIKey(key) {
		c.errorf(`Invalid API key format. Google API keys should start with "AIzaSy" followed by 33 characters.`)
		return nil
	}
	if err := c.store.SetAPIKey(key); err != nil {
		c.errorf("Could not save API key: %v", err)
		return nil
	}
	c.successf("API key saved successfully!")
	return nil
}

func (c *Console) handleChangeModel() error {
	c.printf("\nAvailable models:\n")
	for i, id := range catalog.List() {
		c.printf("%d. %s\n", i+1, id)
	}
	c.printf("\n")

	selection, ok, err := c.ask("Enter model number or name: ")
	if err != nil || !ok {
		return err
	}
	model, err := catalog.Select(selection)
	if err != nil {
		c.errorf("Invalid selection.")
		return nil
	}
	if err := c.store.SetSelectedModel(model); err != nil {
		c.errorf("Could not save model: %v", err)
		return nil
	}
	c.successf("Model changed to: %s", model)
	return nil
}

func (c *Console) handleTemperature() error {
	answer, ok, err := c.ask("Enter temperature (0-2): ")
	if err != nil || !ok {
		return err
	}
	t, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		c.errorf("Invalid temperature: %s", answer)
		return nil
	}
	if err := c.store.SetTemperature(t); err != nil {
		c.errorf("Could not set temperature: %v", err)
		return nil
	}
	c.successf("Temperature set to %s", strconv.FormatFloat(t, 'f', -1, 64))
	return nil
}

func (c *Console) handleMaxTokens() error {
	answer, ok, err := c.ask("Enter max tokens: ")
	if err != nil || !ok {
		return err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		c.errorf("Invalid max tokens: %s", answer)
		return nil
	}
	if err := c.store.SetMaxTokens(n); err != nil {
		c.errorf("Could not set max tokens: %v", err)
		return nil
	}
	c.successf("Max tokens set to %d", n)
	return nil
}

func (c *Console) showModels() {
	c.printf("\nAvailable models:\n")
	for _, id := range catalog.List() {
		info, ok := catalog.Describe(id)
		if !ok {
			c.printf("\n%s\n", id)
			continue
		}
		c.printf("\n%s (%s):\n", labelStyle.Render(info.DisplayName), id)
		c.printf("  Description: %s\n", info.Description)
		c.printf("  Capabilities: %s\n", strings.Join(info.Capabilities, ", "))
	}
}

func (c *Console) showConfig() {
	cfg := c.store.Config()
	key := cfg.MaskedAPIKey()
	if key == "" {
		key = "(not set)"
	}
	c.printf("\nAPI key:     %s\n", key)
	c.printf("Model:       %s\n", cfg.SelectedModel)
	c.printf("Temperature: %s\n", strconv.FormatFloat(cfg.Temperature, 'f', -1, 64))
	c.printf("Max tokens:  %d\n", cfg.MaxTokens)
}

func (c *Console) handleNew() {
	c.turns = nil
	c.thread = ""
	c.successf("Started a new conversation.")
}

func (c *Console) handleSave(name string) {
	if c.conversations == nil {
		c.errorf("Conversation history is not available.")
		return
	}
	if name == "" {
		name = c.thread
	}
	if name == "" {
		c.errorf("Usage: /save <name>")
		return
	}
	if err := c.conversations.Save(name, c.turns); err != nil {
		c.errorf("Error saving conversation: %v", err)
		return
	}
	c.thread = name
	c.successf("Conversation '%s' saved.", name)
}

func (c *Console) handleLoad(name string) {
	if c.conversations == nil {
		c.errorf("Conversation history is not available.")
		return
	}
	if name == "" {
		c.errorf("Usage: /load <name>")
		return
	}
	turns, err := c.conversations.Load(name)
	if err != nil {
		c.errorf("Error loading conversation '%s': %v", name, err)
		return
	}
	c.turns = turns
	c.thread = name
	c.successf("Conversation '%s' loaded (%d messages).", name, len(turns))
}

func (c *Console) handleList() {
	if c.conversations == nil {
		c.errorf("Conversation history is not available.")
		return
	}
	names, err := c.conversations.List()
	if err != nil {
		c.errorf("Error listing conversations: %v", err)
		return
	}
	if len(names) == 0 {
		c.printf("No existing conversations.\n")
		return
	}
	c.printf("Existing conversations:\n")
	for _, name := range names {
		c.printf("- %s\n", name)
	}
}
