package prompt

import (
	"errors"
	"testing"
)

func TestMockPrompter_Input(t *testing.T) {
	m := &Mock{
		InputFunc: func(cfg InputConfig) (string, error) {
			return "test-value", nil
		},
	}

	result, err := m.Input(InputConfig{Title: "Enter something"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "test-value" {
		t.Errorf("got %q, want %q", result, "test-value")
	}
}

func TestMockPrompter_InputError(t *testing.T) {
	m := &Mock{
		InputFunc: func(cfg InputConfig) (string, error) {
			return "", errors.New("user cancelled")
		},
	}

	_, err := m.Input(InputConfig{Title: "Enter something"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMockPrompter_Confirm(t *testing.T) {
	m := &Mock{
		ConfirmFunc: func(cfg ConfirmConfig) (bool, error) {
			return true, nil
		},
	}

	result, err := m.Confirm(ConfirmConfig{Title: "Are you sure?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result {
		t.Error("got false, want true")
	}
}

func TestMockPrompter_MultiSelect(t *testing.T) {
	m := &Mock{
		MultiSelectFunc: func(cfg MultiSelectConfig) ([]string, error) {
			return []string{"model", "quota"}, nil
		},
	}

	result, err := m.MultiSelect(MultiSelectConfig{
		Title: "Choose actions",
		Options: []SelectOption{
			{Label: "Model", Value: "model"},
			{Label: "Quota", Value: "quota"},
			{Label: "Tools", Value: "tools"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("got %d results, want 2", len(result))
	}
	if result[0] != "model" || result[1] != "quota" {
		t.Errorf("got %v, want [model quota]", result)
	}
}

func TestDefaultPrompter_IsSet(t *testing.T) {
	if Default == nil {
		t.Fatal("Default prompter should not be nil")
	}
}

func TestSetDefault_Restores(t *testing.T) {
	original := Default

	mock := &Mock{}
	SetDefault(mock)
	if Default != mock {
		t.Fatal("SetDefault did not set the mock")
	}

	SetDefault(original)
	if Default != original {
		t.Fatal("SetDefault did not restore original")
	}
}

func TestMockPrompter_RecordsCalls(t *testing.T) {
	m := &Mock{}
	_, _ = m.Input(InputConfig{Title: "API key", Secret: true})
	_, _ = m.Confirm(ConfirmConfig{Title: "Delete?"})

	if len(m.InputCalls) != 1 || !m.InputCalls[0].Secret {
		t.Errorf("InputCalls = %+v", m.InputCalls)
	}
	if len(m.ConfirmCalls) != 1 || m.ConfirmCalls[0].Title != "Delete?" {
		t.Errorf("ConfirmCalls = %+v", m.ConfirmCalls)
	}
}

func TestValidateAPIKey(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n"} {
		if err := ValidateAPIKey(in); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("ValidateAPIKey(%q) = %v, want ErrEmptyKey", in, err)
		}
	}
	if err := ValidateAPIKey("sk-anything"); err != nil {
		t.Errorf("ValidateAPIKey() = %v, want nil", err)
	}
}

func TestValidateAtLeastOne(t *testing.T) {
	if ValidateAtLeastOne(nil) == nil {
		t.Error("empty selection should fail")
	}
	if err := ValidateAtLeastOne([]string{"quota"}); err != nil {
		t.Errorf("ValidateAtLeastOne() = %v", err)
	}
}

func TestMockPrompter_FixedAnswers(t *testing.T) {
	m := &Mock{InputValue: "sk-fixed", ConfirmValue: true, MultiSelectValue: []string{"quota"}}

	if v, _ := m.Input(InputConfig{}); v != "sk-fixed" {
		t.Errorf("Input() = %q", v)
	}
	if ok, _ := m.Confirm(ConfirmConfig{}); !ok {
		t.Error("Confirm() = false")
	}
	if v, _ := m.MultiSelect(MultiSelectConfig{}); len(v) != 1 || v[0] != "quota" {
		t.Errorf("MultiSelect() = %v", v)
	}
}

func TestNewHuh_Accessible(t *testing.T) {
	t.Setenv("ACCESSIBLE", "")
	if NewHuh().Accessible {
		t.Error("Accessible should be off by default")
	}
	t.Setenv("ACCESSIBLE", "1")
	if !NewHuh().Accessible {
		t.Error("ACCESSIBLE=1 should enable accessible mode")
	}
}
