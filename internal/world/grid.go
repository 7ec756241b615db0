package world

// Grid layout. The arena is split into square regions of 2^ShiftBy units;
// range queries only visit regions overlapping the query circle.
const (
	ShiftBy    = 11
	RegionSize = 1 << ShiftBy // 2048

	// Arena boundaries (game coordinates).
	WorldXMin = -65536
	WorldYMin = -65536
	WorldXMax = 65535
	WorldYMax = 65535

	// OffsetX = abs(WorldXMin >> ShiftBy)
	OffsetX = -(WorldXMin >> ShiftBy)
	OffsetY = -(WorldYMin >> ShiftBy)

	RegionsX = (WorldXMax >> ShiftBy) + OffsetX + 1
	RegionsY = (WorldYMax >> ShiftBy) + OffsetY + 1
)

// CoordToRegionIndex converts world coordinate to region index.
// Formula: (worldCoord >> ShiftBy) + Offset
func CoordToRegionIndex(x, y int32) (rx, ry int32) {
	rx = (x >> ShiftBy) + OffsetX
	ry = (y >> ShiftBy) + OffsetY
	return rx, ry
}

// IsValidRegionIndex checks if region index is within arena bounds.
func IsValidRegionIndex(rx, ry int32) bool {
	return rx >= 0 && rx < RegionsX && ry >= 0 && ry < RegionsY
}

// IsValidCoord reports whether (x, y) lies inside the arena.
func IsValidCoord(x, y int32) bool {
	return x >= WorldXMin && x <= WorldXMax && y >= WorldYMin && y <= WorldYMax
}

// RegionIndexToCoord returns the center of region (rx, ry).
func RegionIndexToCoord(rx, ry int32) (x, y int32) {
	x = ((rx - OffsetX) << ShiftBy) + (RegionSize / 2)
	y = ((ry - OffsetY) << ShiftBy) + (RegionSize / 2)
	return x, y
}

// regionSpan returns the inclusive index box covering a circle.
// Indexes are clamped to the grid.
func regionSpan(x, y, radius int32) (minX, minY, maxX, maxY int32) {
	radius = max(radius, 0)
	minX, minY = CoordToRegionIndex(clampX(x-radius), clampY(y-radius))
	maxX, maxY = CoordToRegionIndex(clampX(x+radius), clampY(y+radius))
	return minX, minY, maxX, maxY
}

func clampX(x int32) int32 { return min(max(x, WorldXMin), WorldXMax) }
func clampY(y int32) int32 { return min(max(y, WorldYMin), WorldYMax) }
