package core

import (
	"errors"
	"strings"

	"github.com/illarion/hashguard/internal/crypto"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var ErrNotInspectable = errors.New("hasher does not expose hash parameters")

// Inspector is implemented by hashers that can describe a stored hash,
// such as crypto.Registry.
type Inspector interface {
	Info(hash string) (crypto.Info, error)
	NeedsRehash(hash string) (bool, error)
	Template() crypto.Info
}

// RehashAdvice compares a stored hash with the current hasher settings
type RehashAdvice struct {
	Stored  crypto.Info
	Current crypto.Info
	Needed  bool
	// Diff marks removed parameters as [-old-] and added ones as {+new+}.
	Diff string
}

// Inspect describes storedHash and whether it should be re-created with the
// current settings on the next Save.
func (m *Manager) Inspect(storedHash string) (*RehashAdvice, error) {
	inspector, ok := m.hasher.(Inspector)
	if !ok {
		return nil, ErrNotInspectable
	}

	stored, err := inspector.Info(storedHash)
	if err != nil {
		return nil, ErrInvalidHash
	}
	needed, err := inspector.NeedsRehash(storedHash)
	if err != nil {
		return nil, ErrInvalidHash
	}

	advice := &RehashAdvice{
		Stored:  stored,
		Current: inspector.Template(),
		Needed:  needed,
	}
	if needed {
		advice.Diff = renderDiff(advice.Stored.String(), advice.Current.String())
	}
	return advice, nil
}

func renderDiff(stored, current string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(stored, current, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		}
	}
	return b.String()
}
