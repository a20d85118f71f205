package engine

import (
	"fmt"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/snapshot"
)

func (e *Engine) handle(ev Event) error {
	switch ev := ev.(type) {
	case Select:
		if _, ok := e.scene.Node(ev.ID); !ok && ev.ID != looptunes.NoNode {
			return fmt.Errorf("select %d: %w", ev.ID, looptunes.ErrNoSuchNode)
		}
		e.selected = ev.ID
	case MoveCursor:
		e.cursor = ev.At
	case TogglePlay:
		playing, err := e.scene.TogglePlaying(e.target(ev.ID))
		reply(ev.Reply, Result{ID: e.scene.RootOf(e.target(ev.ID)), Playing: playing, Err: err})
		return err
	case ToggleRoot:
		roots := e.scene.Roots()
		if len(roots) == 0 {
			return nil
		}
		i := ev.Index % len(roots)
		if i < 0 {
			i += len(roots)
		}
		playing, err := e.scene.TogglePlaying(roots[i])
		e.log.Debug("toggled root", "id", roots[i], "playing", playing)
		return err
	case StopAll:
		e.scene.StopAll()
	case Copy:
		return e.copy(ev)
	case Paste:
		return e.paste(ev)
	case Draw:
		n, ok := e.scene.Node(e.target(ev.ID))
		if !ok {
			return fmt.Errorf("draw on %d: %w", ev.ID, looptunes.ErrNoSuchNode)
		}
		n.Wave.Draw(ev.From, ev.To)
	case SetFrequency:
		return e.scene.SetFrequency(e.target(ev.ID), ev.Frequency)
	case SetPhase:
		return e.scene.SetPhase(e.target(ev.ID), ev.Phase)
	case AddChild:
		id, err := e.addChild(ev)
		reply(ev.Reply, Result{ID: id, Err: err})
		return err
	case Delete:
		id := e.target(ev.ID)
		if e.scene.Remove(id) == 0 {
			return fmt.Errorf("delete %d: %w", id, looptunes.ErrNoSuchNode)
		}
		if _, ok := e.scene.Node(e.selected); !ok {
			e.selected = looptunes.NoNode
		}
	case List:
		reply(ev.Reply, Describe(e.scene))
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
	return nil
}

// target resolves NoNode to the selected node.
func (e *Engine) target(id looptunes.NodeID) looptunes.NodeID {
	if id == looptunes.NoNode {
		return e.selected
	}
	return id
}

func (e *Engine) copy(ev Copy) error {
	id := e.target(ev.ID)
	if id == looptunes.NoNode {
		reply(ev.Reply, Result{Err: ErrNothingSelected})
		return ErrNothingSelected
	}
	text, err := snapshot.Marshal(e.scene, id)
	if err == nil && ev.Reply == nil {
		err = e.clipboard.WriteText(text)
	}
	reply(ev.Reply, Result{ID: id, Text: text, Err: err})
	if err != nil {
		return fmt.Errorf("copy %d: %w", id, err)
	}
	e.log.Info("copied", "id", id, "bytes", len(text))
	return nil
}

func (e *Engine) paste(ev Paste) error {
	text := ev.Text
	if text == "" {
		var err error
		if text, err = e.clipboard.ReadText(); err != nil {
			reply(ev.Reply, Result{Err: err})
			return fmt.Errorf("paste: %w", err)
		}
	}
	at := ev.At
	if ev.AtCursor {
		at = e.cursor
	}
	id, err := snapshot.Paste(text, at, e.scene)
	reply(ev.Reply, Result{ID: id, Err: err})
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	e.selected = id
	e.log.Info("pasted", "id", id, "nodes", e.scene.Len())
	return nil
}

func (e *Engine) addChild(ev AddChild) (looptunes.NodeID, error) {
	gen := looptunes.Sine
	if ev.Wave != "" {
		var ok bool
		if gen, ok = looptunes.LookupGenerator(ev.Wave); !ok {
			return looptunes.NoNode, fmt.Errorf("unknown wave %q", ev.Wave)
		}
	}
	n := looptunes.NewNode()
	n.Frequency = ev.Frequency
	n.Phase = ev.Phase
	n.Wave = looptunes.NewWaveTable(gen)
	n.Position = ev.Position
	id, err := e.scene.Add(n, ev.Parent)
	if err != nil {
		return looptunes.NoNode, err
	}
	e.selected = id
	return id, nil
}

func reply[T any](c chan<- T, v T) {
	if c != nil {
		TrySend(c, v)
	}
}
