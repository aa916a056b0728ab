package driven

// ConfigStore is a flat key/value view of the settings file.
// Keys are dotted paths such as "embedding.provider". Typed getters return
// the zero value when a key is missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64

	// Set stores a value. File-backed stores persist it immediately.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is the backing file, or "" for stores that keep nothing on disk.
	Path() string
}
