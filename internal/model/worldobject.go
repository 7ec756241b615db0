package model

import "sync"

// WorldObject — всё, что стоит в арене: ObjectID, имя и позиция.
// ObjectID неизменяем; имя и позиция защищены mu.
type WorldObject struct {
	objectID uint32
	name     string
	location Location

	mu sync.RWMutex
}

// NewWorldObject создаёт объект в арене.
func NewWorldObject(objectID uint32, name string, loc Location) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		name:     name,
		location: loc,
	}
}

// ObjectID возвращает runtime ID объекта.
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Name возвращает имя объекта.
func (w *WorldObject) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// Location возвращает копию координат.
func (w *WorldObject) Location() Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.location
}

// SetLocation перемещает объект. Для монстров вызывать только через
// world.MoveMonster, иначе индекс регионов разойдётся.
func (w *WorldObject) SetLocation(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
}
