package core

// Scheduler runs the timed modules in fixed CoreType order.
// Scheduling is frame-count based; wall-clock time is never consulted.
type Scheduler struct {
	modules []Module
	byCore  [coreTypeCount + 1]Module
}

// NewScheduler creates one module per timed core.
// Tidal has no timed part and gets no module.
func NewScheduler(t Table) *Scheduler {
	s := &Scheduler{}
	s.add(newEmberModule(t.Params(CoreEmber)))
	s.add(newVerdantModule(t.Params(CoreVerdant)))
	s.add(newStormModule(t.Params(CoreStorm)))
	s.add(newMirrorModule(t.Params(CoreMirror)))
	s.add(newCosmicModule(t.Params(CoreCosmic)))
	return s
}

func (s *Scheduler) add(m Module) {
	s.modules = append(s.modules, m)
	s.byCore[m.Core()] = m
}

// Tick advances every equipped module by elapsed frames.
// With no core equipped every counter is reset and nothing fires.
func (s *Scheduler) Tick(elapsed int32, bank *Bank, world World, owner Owner) []Effect {
	active := bank.Active()
	if active.Empty() {
		s.ResetAll()
		return nil
	}

	var effects []Effect
	env := Env{World: world, OwnerID: owner.ObjectID(), Self: owner.Location()}
	for _, m := range s.modules {
		if !active.Has(m.Core()) {
			continue
		}
		env.Multiplier = bank.MultiplierOf(m.Core())
		effects = append(effects, m.Tick(elapsed, env)...)
	}
	return effects
}

// Reset zeroes the counters of c's module.
func (s *Scheduler) Reset(c CoreType) {
	if m := s.module(c); m != nil {
		m.Reset()
	}
}

// ResetAll zeroes every counter.
func (s *Scheduler) ResetAll() {
	for _, m := range s.modules {
		m.Reset()
	}
}

// Counter returns the current counter of c's module (0 if c has none).
func (s *Scheduler) Counter(c CoreType) int32 {
	if m := s.module(c); m != nil {
		return m.Counter()
	}
	return 0
}

func (s *Scheduler) module(c CoreType) Module {
	if !c.Valid() {
		return nil
	}
	return s.byCore[c]
}

func (s *Scheduler) mirror() *mirrorModule {
	m, _ := s.byCore[CoreMirror].(*mirrorModule)
	return m
}
