package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/udisondev/corebank/internal/ai"
	"github.com/udisondev/corebank/internal/config"
	"github.com/udisondev/corebank/internal/game/combat"
	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/world"
)

type simOptions struct {
	Cores       []core.CoreType
	Level       int32
	Frames      int
	AttackEvery int
	Seed        uint64
}

// simReport is the outcome of one offline fight.
type simReport struct {
	Frames      int
	Attacks     int
	Kills       int
	BossKills   int
	Deaths      int
	Healed      int64
	DamageTaken int64
	Damage      map[core.CoreType]int64 // CoreNone = weapon
}

// simulation drives one player against the configured spawns on a private
// tick manager, without network or persistence.
type simulation struct {
	cfg     config.CoreServer
	opts    simOptions
	world   *world.World
	spawner *world.Spawner
	ticks   *ai.TickManager
	combat  *combat.Manager
	player  *model.Player
	state   *core.State
	report  simReport
}

func newSimulation(cfg config.CoreServer, opts simOptions) (*simulation, error) {
	if opts.AttackEvery <= 0 {
		opts.AttackEvery = 1
	}

	s := &simulation{
		cfg:    cfg,
		opts:   opts,
		world:  world.New(),
		ticks:  ai.NewTickManager(cfg.TickRate),
		report: simReport{Damage: make(map[core.CoreType]int64)},
	}
	s.spawner = world.NewSpawner(s.world, world.RegionsFromConfig(cfg.Regions))
	s.combat = combat.NewManager(s.world, func(objectID uint32) (combat.AIController, bool) {
		c, err := s.ticks.GetController(objectID)
		if err != nil {
			return nil, false
		}
		return c, true
	})
	s.combat.SetDeathFunc(s.onMonsterDeath)
	s.combat.SetHitObserver(s.observe)

	for _, p := range world.PointsFromConfig(cfg.Spawns) {
		m, err := s.spawner.AddPoint(p)
		if err != nil {
			return nil, fmt.Errorf("spawning %q: %w", p.Name, err)
		}
		s.attachAI(m)
	}

	spawn := model.NewLocation(cfg.SpawnX, cfg.SpawnY, cfg.SpawnZ)
	s.player = model.NewPlayer(s.world.IDs().NextPlayerID(), 0, "Simulant", spawn, cfg.PlayerMaxHP)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9E3779B97F4A7C15))
	s.state = core.NewState(s.player, core.Options{
		Table: core.NewTable(cfg.Cores),
		Theme: core.ThemeByName(cfg.Theme),
		Rand:  rng,
	})

	snap := core.Snapshot{KilledBoss: true, SlotsUnlocked: true}
	if len(opts.Cores) > core.SlotCount {
		return nil, fmt.Errorf("%d cores given, only %d slots", len(opts.Cores), core.SlotCount)
	}
	for i, c := range opts.Cores {
		snap.Slots[i] = c.ItemTypeID()
		if opts.Level > 0 {
			snap.Enhancements = append(snap.Enhancements, core.Enhancement{ItemType: c.ItemTypeID(), Level: opts.Level})
		}
	}
	s.state.Restore(snap)

	s.ticks.Register(s.player.ObjectID(), ai.TickerFunc(s.tickPlayer))
	s.ticks.SetFrameHook(s.onFrame)
	return s, nil
}

func (s *simulation) run() simReport {
	for range s.opts.Frames {
		s.ticks.TickOnce()
	}
	s.report.Frames = s.opts.Frames
	return s.report
}

func (s *simulation) attachAI(m *model.Monster) {
	s.ticks.Register(m.ObjectID(), ai.NewRetaliationAI(m,
		func(m *model.Monster, _ uint32) {
			before := s.player.CurrentHP()
			s.account(s.combat.MonsterAttack(m, s.player, s.state))
			s.report.DamageTaken += int64(max(before-s.player.CurrentHP(), 0))
		},
		func(objectID uint32) (model.Target, bool) {
			if objectID != s.player.ObjectID() {
				return nil, false
			}
			return s.player, true
		}))
}

func (s *simulation) tickPlayer(frame uint64) {
	if s.player.IsDead() {
		// Симуляция не ждёт revive delay: сразу на точку возрождения.
		s.report.Deaths++
		s.player.SetCurrentHP(s.player.MaxHP())
		return
	}

	s.account(s.combat.ApplyEffects(s.player, s.state, s.state.Tick(s.world)))

	if frame%uint64(s.opts.AttackEvery) != 0 {
		return
	}
	target := s.nearestTarget()
	if target == nil {
		return
	}
	s.report.Attacks++
	out, err := s.combat.ExecuteAttack(s.player, s.state, target.ObjectID(), s.cfg.WeaponDamage)
	if err != nil {
		return
	}
	s.account(out)
}

func (s *simulation) nearestTarget() *model.Monster {
	var (
		best     *model.Monster
		bestDist int64
	)
	here := s.player.Location()
	for _, m := range s.world.Monsters() {
		if m.IsDead() || !combat.IsInAttackRange(here, m.Location()) {
			continue
		}
		if d := here.DistanceSquared(m.Location()); best == nil || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

func (s *simulation) observe(h combat.HitResult) {
	if h.AttackerID == s.player.ObjectID() {
		s.report.Damage[h.Source] += int64(h.Damage)
	}
}

func (s *simulation) account(out combat.Outcome) {
	s.report.Healed += int64(out.Healed)
	for _, m := range out.Killed {
		s.report.Kills++
		if m.IsBoss() {
			s.report.BossKills++
		}
	}
}

func (s *simulation) onMonsterDeath(m *model.Monster) {
	if !s.spawner.OnDeath(m.ObjectID(), s.ticks.Frame()) {
		s.world.RemoveMonster(m.ObjectID())
	}
	s.ticks.Unregister(m.ObjectID())
}

func (s *simulation) onFrame(frame uint64) {
	for _, m := range s.spawner.Tick(frame) {
		s.attachAI(m)
	}
}

func (r simReport) write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "frames\t%d\n", r.Frames)
	fmt.Fprintf(tw, "attacks\t%d\n", r.Attacks)
	fmt.Fprintf(tw, "kills\t%d (boss %d)\n", r.Kills, r.BossKills)
	fmt.Fprintf(tw, "deaths\t%d\n", r.Deaths)
	fmt.Fprintf(tw, "damage taken\t%d\n", r.DamageTaken)
	fmt.Fprintf(tw, "healed\t%d\n", r.Healed)

	var total int64
	for _, v := range r.Damage {
		total += v
	}
	fmt.Fprintf(tw, "damage dealt\t%d\n", total)
	for _, c := range append([]core.CoreType{core.CoreNone}, core.AllCores()...) {
		v, ok := r.Damage[c]
		if !ok {
			continue
		}
		name := c.String()
		if c == core.CoreNone {
			name = "weapon"
		}
		fmt.Fprintf(tw, "  %s\t%d\n", name, v)
	}
	return tw.Flush()
}

func parseCores(list string) ([]core.CoreType, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var out []core.CoreType
	for _, name := range strings.Split(list, ",") {
		c, err := core.ParseCoreType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func newSimulateCmd() *cobra.Command {
	var (
		cores string
		opts  simOptions
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an offline fight against the configured spawns",
		Example: `  coretool simulate --cores ember,storm,cosmic --level 3 --frames 3600
  coretool simulate --cores tidal --attack-every 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if opts.Cores, err = parseCores(cores); err != nil {
				return err
			}
			if opts.Level < 0 || opts.Level > core.MaxEnhanceLevel {
				return fmt.Errorf("level must be 0..%d", core.MaxEnhanceLevel)
			}

			sim, err := newSimulation(cfg, opts)
			if err != nil {
				return err
			}
			return sim.run().write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cores, "cores", "", "Comma-separated cores for slots 0..2 (ember,verdant,tidal,storm,mirror,cosmic)")
	cmd.Flags().Int32Var(&opts.Level, "level", 0, "Enhancement level of every equipped core")
	cmd.Flags().IntVar(&opts.Frames, "frames", 3600, "Frames to simulate")
	cmd.Flags().IntVar(&opts.AttackEvery, "attack-every", 60, "Frames between weapon attacks")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Random seed for proc rolls")
	return cmd
}
