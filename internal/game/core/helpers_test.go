package core

import (
	"slices"

	"github.com/udisondev/corebank/internal/model"
)

// testWorld is an in-memory World over plain monsters.
type testWorld struct {
	monsters map[uint32]*model.Monster
}

func newTestWorld(monsters ...*model.Monster) *testWorld {
	w := &testWorld{monsters: make(map[uint32]*model.Monster)}
	for _, m := range monsters {
		w.monsters[m.ObjectID()] = m
	}
	return w
}

func (w *testWorld) Target(id uint32) (model.Target, bool) {
	m, ok := w.monsters[id]
	if !ok {
		return nil, false
	}
	return m, true
}

func (w *testWorld) HostilesInRange(center model.Location, radius int32) []model.Target {
	ids := make([]uint32, 0, len(w.monsters))
	for id, m := range w.monsters {
		if m.Location().InRange(center, radius) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	out := make([]model.Target, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.monsters[id])
	}
	return out
}

func (w *testWorld) remove(id uint32) {
	delete(w.monsters, id)
}

func monster(id uint32, x, y, hp int32) *model.Monster {
	return model.NewMonster(id, 1000, "Dummy", model.NewLocation(x, y, 0), hp)
}

func owner() *model.Player {
	return model.NewPlayer(1, 100, "Hero", model.NewLocation(0, 0, 0), 500)
}

// seqRand returns values in order and then repeats the last one.
type seqRand struct {
	values []float64
	calls  int
}

func (r *seqRand) Float64() float64 {
	if len(r.values) == 0 {
		return 0.99
	}
	i := min(r.calls, len(r.values)-1)
	r.calls++
	return r.values[i]
}

type recordingPresenter struct {
	effects []Effect
	notices []Notice
}

func (p *recordingPresenter) Present(e Effect) { p.effects = append(p.effects, e) }
func (p *recordingPresenter) Notify(n Notice)  { p.notices = append(p.notices, n) }

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, len(effects))
	for i, e := range effects {
		out[i] = e.Kind
	}
	return out
}

func countKind(effects []Effect, kind EffectKind, source CoreType) int {
	n := 0
	for _, e := range effects {
		if e.Kind == kind && e.Source == source {
			n++
		}
	}
	return n
}
