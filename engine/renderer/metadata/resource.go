package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	ResourceTypeNone ResourceType = iota
	/** @brief Waypoint list, numeric pairs. */
	ResourceTypePath
	/** @brief Node hierarchy description. */
	ResourceTypeRig
	/** @brief Model file (collection of mesh data). */
	ResourceTypeModel
	/** @brief Shader stage source. */
	ResourceTypeShader
	/** @brief Engine configuration. */
	ResourceTypeConfig
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypePath:
		return "path"
	case ResourceTypeRig:
		return "rig"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeConfig:
		return "config"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
