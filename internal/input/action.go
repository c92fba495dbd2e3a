package input

import "fmt"

// Action is an operation a hotkey triggers.
type Action int

const (
	ActionQuit Action = iota + 1
	ActionSnapshot
	ActionRecord
	ActionPreview
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionSnapshot:
		return "snapshot"
	case ActionRecord:
		return "record"
	case ActionPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Bindings maps key codes to actions.
type Bindings map[Code]Action

// KeyNames names the key bound to each action.
type KeyNames struct {
	Quit     string `json:"quit"`
	Snapshot string `json:"snapshot"`
	Record   string `json:"record"`
	Preview  string `json:"preview"`
}

// DefaultKeyNames returns Escape, P, R and H.
func DefaultKeyNames() KeyNames {
	return KeyNames{Quit: "esc", Snapshot: "p", Record: "r", Preview: "h"}
}

// NewBindings resolves key names into bindings. Two actions may not share
// a key.
func NewBindings(keys KeyNames) (Bindings, error) {
	b := make(Bindings, 4)
	for _, kv := range []struct {
		name   string
		action Action
	}{
		{keys.Quit, ActionQuit},
		{keys.Snapshot, ActionSnapshot},
		{keys.Record, ActionRecord},
		{keys.Preview, ActionPreview},
	} {
		code, err := ParseKey(kv.name)
		if err != nil {
			return nil, fmt.Errorf("%s key: %w", kv.action, err)
		}
		if prev, dup := b[code]; dup {
			return nil, fmt.Errorf("key %q bound to both %s and %s", kv.name, prev, kv.action)
		}
		b[code] = kv.action
	}
	return b, nil
}

// DefaultBindings returns the stock bindings.
func DefaultBindings() Bindings {
	b, err := NewBindings(DefaultKeyNames())
	if err != nil {
		panic(err)
	}
	return b
}
