package prompt

import "sync"

// Mock is a scripted Prompter. A nil func falls back to the matching fixed
// answer. Every call is recorded.
type Mock struct {
	InputFunc       func(cfg InputConfig) (string, error)
	ConfirmFunc     func(cfg ConfirmConfig) (bool, error)
	MultiSelectFunc func(cfg MultiSelectConfig) ([]string, error)

	InputValue       string
	ConfirmValue     bool
	MultiSelectValue []string

	mu               sync.Mutex
	InputCalls       []InputConfig
	ConfirmCalls     []ConfirmConfig
	MultiSelectCalls []MultiSelectConfig
}

var _ Prompter = (*Mock)(nil)

func (m *Mock) Input(cfg InputConfig) (string, error) {
	m.mu.Lock()
	m.InputCalls = append(m.InputCalls, cfg)
	m.mu.Unlock()
	if m.InputFunc != nil {
		return m.InputFunc(cfg)
	}
	return m.InputValue, nil
}

func (m *Mock) Confirm(cfg ConfirmConfig) (bool, error) {
	m.mu.Lock()
	m.ConfirmCalls = append(m.ConfirmCalls, cfg)
	m.mu.Unlock()
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(cfg)
	}
	return m.ConfirmValue, nil
}

func (m *Mock) MultiSelect(cfg MultiSelectConfig) ([]string, error) {
	m.mu.Lock()
	m.MultiSelectCalls = append(m.MultiSelectCalls, cfg)
	m.mu.Unlock()
	if m.MultiSelectFunc != nil {
		return m.MultiSelectFunc(cfg)
	}
	return m.MultiSelectValue, nil
}
