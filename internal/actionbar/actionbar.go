// Package actionbar maps the chat input action keys to the components shown
// in the bar. Only the quota action carries behavior in this program; the
// rest are listed so a configured bar can be validated and previewed.
package actionbar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type Key string

const (
	Clear         Key = "clear"
	FileUpload    Key = "fileUpload"
	History       Key = "history"
	KnowledgeBase Key = "knowledgeBase"
	Model         Key = "model"
	Quota         Key = "quota"
	STT           Key = "stt"
	Temperature   Key = "temperature"
	Token         Key = "token"
	Tools         Key = "tools"
)

type Action struct {
	Key         Key
	Title       string
	Description string
}

// Registry maps keys to actions.
type Registry struct {
	actions map[Key]Action
	order   []Key
}

var defaultActions = []Action{
	{Clear, "Clear", "Clear the current conversation"},
	{FileUpload, "Upload", "Attach files to the message"},
	{History, "History", "Limit how many past messages are sent"},
	{KnowledgeBase, "Knowledge", "Select knowledge bases for retrieval"},
	{Model, "Model", "Switch the chat model"},
	{Quota, "Quota", "Remaining API credit and expiration"},
	{STT, "Voice", "Speech to text input"},
	{Temperature, "Temperature", "Adjust sampling temperature"},
	{Token, "Tokens", "Token usage of the conversation"},
	{Tools, "Tools", "Enable plugins and tools"},
}

// NewRegistry builds a registry; the order of actions is the default order.
func NewRegistry(actions ...Action) *Registry {
	r := &Registry{actions: make(map[Key]Action, len(actions))}
	for _, a := range actions {
		if _, dup := r.actions[a.Key]; !dup {
			r.order = append(r.order, a.Key)
		}
		r.actions[a.Key] = a
	}
	return r
}

// Builtin is the registry of every known action.
func Builtin() *Registry {
	return NewRegistry(defaultActions...)
}

func (r *Registry) Lookup(key Key) (Action, bool) {
	a, ok := r.actions[key]
	return a, ok
}

// Keys returns every registered key, sorted.
func (r *Registry) Keys() []Key {
	keys := lo.Keys(r.actions)
	slices.Sort(keys)
	return keys
}

// Default returns every action in registration order.
func (r *Registry) Default() []Action {
	return lo.Map(r.order, func(k Key, _ int) Action { return r.actions[k] })
}

// Resolve turns configured keys into actions, keeping the first occurrence
// of duplicates. Empty input yields Default. Unknown keys are an error.
func (r *Registry) Resolve(configured []string) ([]Action, error) {
	keys := lo.Uniq(lo.Compact(lo.Map(configured, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
	if len(keys) == 0 {
		return r.Default(), nil
	}

	unknown := lo.Reject(keys, func(k string, _ int) bool {
		_, ok := r.actions[Key(k)]
		return ok
	})
	if len(unknown) > 0 {
		valid := lo.Map(r.Keys(), func(k Key, _ int) string { return string(k) })
		return nil, fmt.Errorf("unknown action(s) %s; valid actions: %s",
			strings.Join(unknown, ", "), strings.Join(valid, ", "))
	}
	return lo.Map(keys, func(k string, _ int) Action { return r.actions[Key(k)] }), nil
}

// Labels renders each action as its title, with the quota slot replaced by
// quotaLabel.
func Labels(actions []Action, quotaLabel string) []string {
	return lo.Map(actions, func(a Action, _ int) string {
		if a.Key == Quota {
			return quotaLabel
		}
		return a.Title
	})
}

// HasQuota reports whether the quota action is part of actions.
func HasQuota(actions []Action) bool {
	return lo.ContainsBy(actions, func(a Action) bool { return a.Key == Quota })
}
