package agent

import (
	"sync"

	"near-intents/pkg/types"
)

// Preferences holds agent-scoped privacy settings. They live for the
// session and are only mutated through the merge operations below,
// which take the write lock for the whole read-modify-write.
type Preferences struct {
	mu           sync.RWMutex
	defaultLevel types.PrivacyLevel
	autoShield   bool
	memosEnabled bool
	viewingKeys  map[string]string
}

// NewPreferences returns the default preferences: shielded by default,
// auto-shielding incoming funds, memos enabled.
func NewPreferences() *Preferences {
	return &Preferences{
		defaultLevel: types.PrivacyShielded,
		autoShield:   true,
		memosEnabled: true,
		viewingKeys:  make(map[string]string),
	}
}

// DefaultLevel returns the privacy level used when a caller does not
// pass one explicitly.
func (p *Preferences) DefaultLevel() types.PrivacyLevel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.defaultLevel
}

// AutoShield reports whether incoming shieldable funds are shielded
// automatically.
func (p *Preferences) AutoShield() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.autoShield
}

// MemosEnabled reports whether shielded swaps carry a memo.
func (p *Preferences) MemosEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memosEnabled
}

// ViewingKey returns the stored viewing key reference for a symbol.
func (p *Preferences) ViewingKey(symbol string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	key, ok := p.viewingKeys[symbol]
	return key, ok
}

// Update is a partial, typed preferences change. Nil fields are left
// untouched; viewing keys merge per entry.
type Update struct {
	DefaultLevel *types.PrivacyLevel
	AutoShield   *bool
	MemosEnabled *bool
	ViewingKeys  map[string]string
}

// Apply merges a typed update.
func (p *Preferences) Apply(u Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u.DefaultLevel != nil {
		p.defaultLevel = *u.DefaultLevel
	}
	if u.AutoShield != nil {
		p.autoShield = *u.AutoShield
	}
	if u.MemosEnabled != nil {
		p.memosEnabled = *u.MemosEnabled
	}
	for symbol, key := range u.ViewingKeys {
		p.viewingKeys[symbol] = key
	}
}

// ApplyMap merges a loosely typed update, applying only the recognized
// keys and returning the names of any it did not recognize so the
// caller can report them. Recognized keys with the wrong value type are
// returned as unrecognized rather than silently dropped.
func (p *Preferences) ApplyMap(values map[string]any) (unknown []string) {
	update := Update{}
	for key, value := range values {
		switch key {
		case "default_level":
			if s, ok := value.(string); ok {
				level := types.PrivacyLevel(s)
				update.DefaultLevel = &level
				continue
			}
		case "auto_shield":
			if b, ok := value.(bool); ok {
				update.AutoShield = &b
				continue
			}
		case "memos_enabled":
			if b, ok := value.(bool); ok {
				update.MemosEnabled = &b
				continue
			}
		case "viewing_keys":
			if keys, ok := toStringMap(value); ok {
				update.ViewingKeys = keys
				continue
			}
		}
		unknown = append(unknown, key)
	}

	p.Apply(update)
	return unknown
}

func toStringMap(value any) (map[string]string, bool) {
	switch m := value.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	}
	return nil, false
}
