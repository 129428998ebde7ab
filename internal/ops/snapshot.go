package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Yoshiyuki1026/smtd/internal/host"
	"github.com/Yoshiyuki1026/smtd/internal/model"
	"github.com/Yoshiyuki1026/smtd/internal/store"
)

var ErrBadSnapshot = errors.New("bad snapshot")

// ExportSnapshot writes the stored state document as indented JSON.
func ExportSnapshot(ctx context.Context, st store.Store, key string, w io.Writer) error {
	snap, found, err := host.LoadSnapshot(ctx, st, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("export %s: %w", key, store.ErrNotFound)
	}
	snap.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ImportSnapshot validates a state document and replaces the stored one.
// The running server must be stopped first; it does not reload.
func ImportSnapshot(ctx context.Context, st store.Store, key string, r io.Reader) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if err := checkSnapshot(snap); err != nil {
		return model.Snapshot{}, err
	}
	snap.Normalize()
	if err := host.SaveSnapshot(ctx, st, key, snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

func checkSnapshot(snap model.Snapshot) error {
	seen := make(map[model.TaskID]bool, len(snap.Tasks))
	for i, t := range snap.Tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: task %d has no id", ErrBadSnapshot, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate task id %s", ErrBadSnapshot, t.ID)
		}
		seen[t.ID] = true
	}
	items := make(map[model.BlackHoleID]bool, len(snap.BlackHole))
	for i, it := range snap.BlackHole {
		if it.ID == "" {
			return fmt.Errorf("%w: black hole item %d has no id", ErrBadSnapshot, i)
		}
		if items[it.ID] {
			return fmt.Errorf("%w: duplicate black hole id %s", ErrBadSnapshot, it.ID)
		}
		items[it.ID] = true
	}
	gs := snap.GameState
	if gs.CompletedToday < 0 || gs.TotalStones < 0 || gs.Combo < 0 || gs.Streak < 0 || gs.RebirthCount < 0 {
		return fmt.Errorf("%w: negative counters", ErrBadSnapshot)
	}
	return nil
}
