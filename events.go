package stylemap

import (
	"github.com/npillmayer/stylemap/style"
	"github.com/npillmayer/stylemap/widget"
)

// EventKind denotes the moment an event is emitted at.
type EventKind int8

// Kinds of events.
const (
	RuleAdded EventKind = iota
	RuleRemoved
	RuleToggled
	RulesCleared
	MappingApplied
)

func (k EventKind) String() string {
	switch k {
	case RuleAdded:
		return "rule-added"
	case RuleRemoved:
		return "rule-removed"
	case RuleToggled:
		return "rule-toggled"
	case RulesCleared:
		return "rules-cleared"
	case MappingApplied:
		return "mapping-applied"
	}
	return "unknown"
}

// Event is handed to event hooks. Depending on the kind, some of the fields
// are unset:
//
//     RuleAdded, RuleRemoved, RuleToggled:   Index, Rule
//     RulesCleared:                          (none)
//     MappingApplied:                        Widget, Properties, Cached
//
type Event struct {
	Kind       EventKind
	Index      int
	Rule       *Rule
	Widget     widget.Widget
	Properties style.PropertyMap // a copy, hooks may keep it
	Cached     bool              // result has been served from the cache
}

// OnEvent registers an event hook. Hooks are called synchronously, outside of
// any lock, in the order of registration. The engine does not provide any
// event transport; hooks may forward events wherever they like.
func (m *Mapping) OnEvent(hook func(Event)) {
	if hook == nil {
		return
	}
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.hooks = append(m.hooks, hook)
}

func (m *Mapping) emit(e Event) {
	m.hmu.RLock()
	hooks := m.hooks
	m.hmu.RUnlock()
	for _, h := range hooks {
		m.callHook(h, e)
	}
}

func (m *Mapping) callHook(h func(Event), e Event) {
	defer func() {
		if x := recover(); x != nil {
			tracer().Errorf("event hook for %s panicked: %v", e.Kind, x)
		}
	}()
	h(e)
}
