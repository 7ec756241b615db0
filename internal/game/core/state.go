package core

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/world"
)

// Options configure a State. Zero fields get defaults.
type Options struct {
	Table     Table
	Theme     Theme
	Presenter Presenter
	Rand      Rand
}

// State is the progression of one player: slots, ledger, timers, marks and world flags.
//
// State is not safe for concurrent use; the owning session serializes access.
type State struct {
	owner     Owner
	table     Table
	theme     Theme
	presenter Presenter

	store       *UpgradeStore
	bank        *Bank
	scheduler   *Scheduler
	marks       *MarkQueue
	dispatcher  *Dispatcher
	interceptor *Interceptor

	flags world.Flags
	frame uint64
}

// NewState creates an empty state for owner: all slots empty, ledger empty.
func NewState(owner Owner, opts Options) *State {
	if opts.Table.UpgradeItemID == 0 && opts.Table.TierBonus == 0 {
		opts.Table = DefaultTable()
	}
	if opts.Theme == nil {
		opts.Theme = ClassicTheme{}
	}
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}

	store := NewUpgradeStore()
	bank := NewBank(store)
	scheduler := NewScheduler(opts.Table)
	marks := NewMarkQueue()

	return &State{
		owner:       owner,
		table:       opts.Table,
		theme:       opts.Theme,
		presenter:   opts.Presenter,
		store:       store,
		bank:        bank,
		scheduler:   scheduler,
		marks:       marks,
		dispatcher:  NewDispatcher(opts.Table, bank, scheduler, marks),
		interceptor: NewInterceptor(opts.Table, bank, opts.Rand),
	}
}

func (s *State) Owner() Owner          { return s.owner }
func (s *State) Table() Table          { return s.table }
func (s *State) Bank() *Bank           { return s.bank }
func (s *State) Store() *UpgradeStore  { return s.store }
func (s *State) Marks() *MarkQueue     { return s.marks }
func (s *State) Scheduler() *Scheduler { return s.scheduler }
func (s *State) Frame() uint64         { return s.frame }
func (s *State) Flags() world.Flags    { return s.flags }

// SetPresenter replaces the presenter (nil disables presentation).
func (s *State) SetPresenter(p Presenter) {
	if p == nil {
		p = NopPresenter{}
	}
	s.presenter = p
}

// SetFlags overwrites world flags.
func (s *State) SetFlags(f world.Flags) {
	s.flags = f
}

// MarkBossDefeated records the boss kill, which also unlocks slots 1 and 2.
// Returns false if it was already recorded.
func (s *State) MarkBossDefeated() bool {
	if s.flags.BossDefeated && s.flags.SlotsUnlocked {
		return false
	}
	s.flags.BossDefeated = true
	s.flags.SlotsUnlocked = true
	slog.Info("boss defeated, core slots unlocked", "owner", s.owner.ObjectID())
	return true
}

// Equip puts c into slot. A replaced occupant loses its timers (and marks for Cosmic).
func (s *State) Equip(slot int, c CoreType) (int32, error) {
	if err := s.checkUnlocked(slot); err != nil {
		s.reject(slot, c, err)
		return 0, err
	}

	prev := s.bank.Slot(slot).Core
	level, err := s.bank.Equip(slot, c)
	if err != nil {
		s.reject(slot, c, err)
		return 0, err
	}
	if prev != CoreNone && prev != c {
		s.detach(prev)
	}

	if level > 0 {
		s.presenter.Notify(Notice{Kind: NoticeRestored, Slot: slot, Core: c, Level: level})
	}
	return level, nil
}

// Unequip empties slot. The ledger is untouched; the removed module's timers
// are cancelled and, for Cosmic, pending marks are dropped. Unequipping an
// empty slot is a no-op.
func (s *State) Unequip(slot int) (CoreType, error) {
	removed, err := s.bank.Unequip(slot)
	if err != nil {
		s.reject(slot, CoreNone, err)
		return CoreNone, err
	}
	if removed != CoreNone {
		s.detach(removed)
	}
	if s.bank.Active().Empty() {
		s.scheduler.ResetAll()
		s.marks.Clear()
	}
	return removed, nil
}

// Enhance spends one upgrade item from inv and raises the slot level.
// Nothing is consumed when any precondition fails.
func (s *State) Enhance(slot int, inv Inventory) (int32, error) {
	core := s.bank.Slot(slot).Core
	if err := s.bank.CanEnhance(slot); err != nil {
		s.reject(slot, core, err)
		return 0, err
	}

	consumed := inv != nil && inv.Consume(s.table.UpgradeItemID, 1)
	level, err := s.bank.Enhance(slot, consumed)
	if err != nil {
		s.reject(slot, core, err)
		return 0, err
	}

	s.presenter.Notify(Notice{Kind: NoticeLevelUp, Slot: slot, Core: core, Level: level})
	return level, nil
}

// Tick advances one frame: timed modules first, then pending marks.
func (s *State) Tick(w World) []Effect {
	s.frame++
	effects := s.scheduler.Tick(1, s.bank, w, s.owner)
	effects = append(effects, s.marks.Tick(w)...)
	return s.emit(effects)
}

// OnOutgoingHit must be called once for every hit the owner lands.
func (s *State) OnOutgoingHit(hit Hit) []Effect {
	return s.emit(s.dispatcher.OnOutgoingHit(hit))
}

// OnKill must be called when the owner kills target.
func (s *State) OnKill(target model.Target) []Effect {
	return s.emit(s.dispatcher.OnKill(target, s.owner))
}

// OnIncomingHit must be called once for every hit the owner receives.
// Absorbed and Reflected hits must not reduce the owner's HP.
func (s *State) OnIncomingHit(h Hurt) (Decision, []Effect) {
	d, effects := s.interceptor.OnIncomingHit(h, s.owner)
	return d, s.emit(effects)
}

// ModifyWeaponDamage adds the tier bonus of every equipped core, scaled by its level.
func (s *State) ModifyWeaponDamage(base float64) float64 {
	bonus := 0.0
	for i, slot := range s.bank.Slots() {
		if slot.Empty() {
			continue
		}
		bonus += s.table.Bonus(slot.Core) * s.bank.Multiplier(i)
	}
	return base + bonus
}

func (s *State) checkUnlocked(slot int) error {
	if !validSlot(slot) {
		return fmt.Errorf("equip slot %d: %w", slot, ErrInvalidSlot)
	}
	if slot > 0 && !s.flags.SlotsUnlocked {
		return fmt.Errorf("equip slot %d: %w", slot, ErrSlotLocked)
	}
	return nil
}

// detach cancels everything c had running.
func (s *State) detach(c CoreType) {
	s.scheduler.Reset(c)
	if c == CoreCosmic {
		if n := s.marks.Clear(); n > 0 {
			slog.Debug("cosmic marks dropped", "owner", s.owner.ObjectID(), "count", n)
		}
	}
}

func (s *State) reject(slot int, c CoreType, err error) {
	slog.Debug("core operation rejected", "owner", s.owner.ObjectID(), "slot", slot, "core", c, "error", err)
	s.presenter.Notify(Notice{Kind: NoticeRejected, Slot: slot, Core: c, Err: err})
}

func (s *State) emit(effects []Effect) []Effect {
	for i := range effects {
		effects[i].Color = s.theme.Color(effects[i].Source)
		s.presenter.Present(effects[i])
	}
	return effects
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
