package metadata

import (
	"github.com/google/uuid"
)

/**
 * @brief A handle to geometry uploaded to the graphics device.
 * The zero value means "no geometry": pure grouping nodes carry it.
 */
type Geometry struct {
	/** @brief The backend identifier (vertex array object for OpenGL). 0 is invalid. */
	ID uint32
	/** @brief The number of indices drawn as a triangle list. */
	IndexCount uint32
	/** @brief The geometry name, used in logs. */
	Name string
}

// IsValid reports whether the handle refers to drawable geometry.
func (g Geometry) IsValid() bool {
	return g.ID != 0 && g.IndexCount > 0
}

// GeometryName returns name, or a generated unique name when it is empty.
func GeometryName(name string) string {
	if name != "" {
		return name
	}
	return "geometry_" + uuid.New().String()
}
