package transcript

import (
	"encoding/json"
	"os"

	"github.com/m4xw311/gpterm/errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one message of the conversation. Content is stored raw, with any
// color directives left unsubstituted.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// EncodeTurn serializes a single turn.
func EncodeTurn(t Turn) ([]byte, error) {
	return json.Marshal(t)
}

// Transcript is the ordered list of turns of the current session.
type Transcript struct {
	systemPrompt string
	turns        []Turn
}

// New creates an empty transcript. Reset fills it with a single system turn
// holding systemPrompt.
func New(systemPrompt string) *Transcript {
	return &Transcript{systemPrompt: systemPrompt}
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(content string, role Role) {
	t.turns = append(t.turns, Turn{Role: role, Content: content})
}

// All returns a copy of every turn in conversation order.
func (t *Transcript) All() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int { return len(t.turns) }

// Last returns the most recent turn, if any.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Reset drops every turn and reinserts the system turn.
func (t *Transcript) Reset() {
	t.turns = []Turn{{Role: RoleSystem, Content: t.systemPrompt}}
}

// Undo removes the last 2n turns, one user/assistant exchange per step. The
// leading system turn is never removed. When fewer than 2n turns are
// available, everything removable is removed and ErrReachedBeginning is
// returned along with the number of turns actually dropped.
func (t *Transcript) Undo(n int) (int, error) {
	if n < 1 {
		return 0, nil
	}
	floor := 0
	if len(t.turns) > 0 && t.turns[0].Role == RoleSystem {
		floor = 1
	}

	want := 2 * n
	removed := 0
	for removed < want && len(t.turns) > floor {
		t.turns = t.turns[:len(t.turns)-1]
		removed++
	}
	if removed < want {
		return removed, errors.ErrReachedBeginning
	}
	return removed, nil
}

// DropLast removes the final turn if it has the given role.
func (t *Transcript) DropLast(role Role) bool {
	last, ok := t.Last()
	if !ok || last.Role != role {
		return false
	}
	t.turns = t.turns[:len(t.turns)-1]
	return true
}

// History returns the turns meant for display. System turns are only included
// when includeSystem is set.
func (t *Transcript) History(includeSystem bool) ([]Turn, error) {
	var out []Turn
	for _, turn := range t.turns {
		if turn.Role == RoleSystem && !includeSystem {
			continue
		}
		out = append(out, turn)
	}
	if len(out) == 0 {
		return nil, errors.ErrEmptyHistory
	}
	return out, nil
}

// Encode serializes every turn as a JSON array.
func (t *Transcript) Encode() ([]byte, error) {
	turns := t.turns
	if turns == nil {
		turns = []Turn{}
	}
	return json.MarshalIndent(turns, "", "  ")
}

// Export writes the transcript to path. The in-memory turns are never
// modified, whatever the outcome.
func (t *Transcript) Export(path string) error {
	data, err := t.Encode()
	if err != nil {
		return errors.Wrapf(err, "failed to serialize conversation")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		if os.IsPermission(err) {
			return errors.Wrapf(errors.ErrPermissionDenied, "could not write %s", path)
		}
		return errors.Wrapf(errors.ErrIO, "could not write %s: %v", path, err)
	}
	return nil
}

// Import replaces the whole transcript with the turns stored at path. On any
// failure the current turns are kept.
func (t *Transcript) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return errors.Wrapf(errors.ErrNotFound, "could not read %s", path)
		case os.IsPermission(err):
			return errors.Wrapf(errors.ErrPermissionDenied, "could not read %s", path)
		}
		return errors.Wrapf(errors.ErrIO, "could not read %s: %v", path, err)
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return errors.Wrapf(errors.ErrInvalidFile, "could not parse %s: %v", path, err)
	}
	for i, turn := range turns {
		if !turn.Role.Valid() {
			return errors.Wrapf(errors.ErrInvalidFile, "turn %d of %s has unknown role %q", i, path, turn.Role)
		}
	}
	t.turns = turns
	return nil
}
