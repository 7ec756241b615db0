package world

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/corebank/internal/config"
	"github.com/udisondev/corebank/internal/model"
)

// ErrProtectedSpawn is returned for spawn points inside a protected region.
var ErrProtectedSpawn = errors.New("spawn point inside protected region")

// SpawnPoint is a place where one monster is kept alive.
type SpawnPoint struct {
	Name         string
	TemplateID   int32
	Location     model.Location
	MaxHP        int32
	RespawnDelay int32 // frames
	Attack       int32
	Boss         bool
}

type respawn struct {
	point int
	at    uint64
}

// Spawner keeps monsters alive at their spawn points.
// Killed monsters are removed from the world and come back after RespawnDelay frames.
type Spawner struct {
	world   *World
	regions []ProtectedRegion

	mu      sync.Mutex
	points  []SpawnPoint
	live    map[uint32]int // objectID → point index
	pending []respawn
}

// NewSpawner creates a spawner over w.
func NewSpawner(w *World, regions []ProtectedRegion) *Spawner {
	return &Spawner{
		world:   w,
		regions: regions,
		live:    make(map[uint32]int),
	}
}

// Regions returns protected regions (read-only).
func (s *Spawner) Regions() []ProtectedRegion {
	return s.regions
}

// AddPoint registers a spawn point and spawns its monster immediately.
func (s *Spawner) AddPoint(p SpawnPoint) (*model.Monster, error) {
	for _, r := range s.regions {
		if r.Contains(p.Location.X, p.Location.Y) {
			return nil, fmt.Errorf("spawn %q at (%d, %d): %w", p.Name, p.Location.X, p.Location.Y, ErrProtectedSpawn)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, p)
	m, err := s.spawnLocked(len(s.points) - 1)
	if err != nil {
		s.points = s.points[:len(s.points)-1]
		return nil, err
	}
	return m, nil
}

func (s *Spawner) spawnLocked(idx int) (*model.Monster, error) {
	p := s.points[idx]
	m := model.NewMonster(s.world.IDs().NextMonsterID(), p.TemplateID, p.Name, p.Location, p.MaxHP)
	m.SetBoss(p.Boss)
	m.SetAttack(p.Attack)
	if err := s.world.AddMonster(m); err != nil {
		return nil, fmt.Errorf("spawning %q: %w", p.Name, err)
	}
	s.live[m.ObjectID()] = idx
	slog.Debug("monster spawned", "objectID", m.ObjectID(), "name", p.Name, "boss", p.Boss)
	return m, nil
}

// OnDeath removes a dead monster and schedules its respawn.
// Returns false if objectID is not a spawned monster.
func (s *Spawner) OnDeath(objectID uint32, frame uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.live[objectID]
	if !ok {
		return false
	}
	delete(s.live, objectID)
	s.world.RemoveMonster(objectID)

	delay := uint64(max(s.points[idx].RespawnDelay, 1))
	s.pending = append(s.pending, respawn{point: idx, at: frame + delay})
	return true
}

// Tick respawns every monster whose delay has passed.
func (s *Spawner) Tick(frame uint64) []*model.Monster {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}

	var spawned []*model.Monster
	n := 0
	for _, r := range s.pending {
		if r.at > frame {
			s.pending[n] = r
			n++
			continue
		}
		m, err := s.spawnLocked(r.point)
		if err != nil {
			slog.Error("respawn failed", "point", s.points[r.point].Name, "error", err)
			continue
		}
		spawned = append(spawned, m)
	}
	s.pending = s.pending[:n]
	return spawned
}

// Pending returns the number of monsters waiting to respawn.
func (s *Spawner) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// PointsFromConfig converts spawn config entries.
func PointsFromConfig(entries []config.SpawnEntry) []SpawnPoint {
	out := make([]SpawnPoint, 0, len(entries))
	for _, e := range entries {
		out = append(out, SpawnPoint{
			Name:         e.Name,
			TemplateID:   e.TemplateID,
			Location:     model.NewLocation(e.X, e.Y, e.Z),
			MaxHP:        e.MaxHP,
			RespawnDelay: e.RespawnDelay,
			Attack:       e.Attack,
			Boss:         e.Boss,
		})
	}
	return out
}

// RegionsFromConfig converts protected region config entries.
func RegionsFromConfig(entries []config.RegionEntry) []ProtectedRegion {
	out := make([]ProtectedRegion, 0, len(entries))
	for _, e := range entries {
		out = append(out, ProtectedRegion{X: e.X, Y: e.Y, Radius: e.Radius})
	}
	return out
}
