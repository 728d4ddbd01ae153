// Package prompt wraps the interactive forms used by commands behind an
// interface so tests can script the answers.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user leaves a prompt with esc or ctrl+c.
var ErrAborted = errors.New("prompt aborted")

type InputConfig struct {
	Title       string
	Description string
	Placeholder string
	// Secret masks the typed value.
	Secret   bool
	Validate func(string) error
}

type ConfirmConfig struct {
	Title       string
	Description string
	Affirmative string
	Negative    string
	Default     bool
}

type SelectOption struct {
	Label    string
	Value    string
	Selected bool
}

type MultiSelectConfig struct {
	Title       string
	Description string
	Options     []SelectOption
	Validate    func([]string) error
}

// Prompter asks the user for input.
type Prompter interface {
	Input(cfg InputConfig) (string, error)
	Confirm(cfg ConfirmConfig) (bool, error)
	MultiSelect(cfg MultiSelectConfig) ([]string, error)
}

// Default is the prompter used by commands. Tests swap it for a Mock.
var Default Prompter = NewHuh()

// SetDefault replaces the package-level prompter.
func SetDefault(p Prompter) {
	Default = p
}

// Huh implements Prompter with charmbracelet/huh forms.
type Huh struct {
	// Accessible renders plain line prompts for screen readers.
	Accessible bool
}

// NewHuh honors the ACCESSIBLE environment variable, as huh documents.
func NewHuh() *Huh {
	return &Huh{Accessible: os.Getenv("ACCESSIBLE") != ""}
}

func (h *Huh) Input(cfg InputConfig) (string, error) {
	var value string
	field := huh.NewInput().
		Title(cfg.Title).
		Description(cfg.Description).
		Placeholder(cfg.Placeholder).
		Value(&value)
	if cfg.Secret {
		field.EchoMode(huh.EchoModePassword)
	}
	if cfg.Validate != nil {
		field.Validate(cfg.Validate)
	}

	if err := h.run(field); err != nil {
		return "", err
	}
	return value, nil
}

func (h *Huh) Confirm(cfg ConfirmConfig) (bool, error) {
	value := cfg.Default
	field := huh.NewConfirm().
		Title(cfg.Title).
		Description(cfg.Description).
		Value(&value)
	if cfg.Affirmative != "" {
		field.Affirmative(cfg.Affirmative)
	}
	if cfg.Negative != "" {
		field.Negative(cfg.Negative)
	}

	if err := h.run(field); err != nil {
		return false, err
	}
	return value, nil
}

func (h *Huh) MultiSelect(cfg MultiSelectConfig) ([]string, error) {
	options := make([]huh.Option[string], 0, len(cfg.Options))
	var selected []string
	for _, opt := range cfg.Options {
		options = append(options, huh.NewOption(opt.Label, opt.Value).Selected(opt.Selected))
		if opt.Selected {
			selected = append(selected, opt.Value)
		}
	}

	field := huh.NewMultiSelect[string]().
		Title(cfg.Title).
		Description(cfg.Description).
		Options(options...).
		Value(&selected)
	if cfg.Validate != nil {
		field.Validate(cfg.Validate)
	}

	if err := h.run(field); err != nil {
		return nil, err
	}
	return selected, nil
}

// run shows a single-field form; esc leaves it like ctrl+c does.
func (h *Huh) run(field huh.Field) error {
	keymap := huh.NewDefaultKeyMap()
	keymap.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"))

	err := huh.NewForm(huh.NewGroup(field)).
		WithKeyMap(keymap).
		WithAccessible(h.Accessible).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}
