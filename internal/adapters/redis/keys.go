package redis

// Key patterns for Redis keys.
const (
	KeyPatternTemplates    = "broadcaster:%s:templates" // per user
	KeyPatternAllTemplates = "broadcaster:*:templates"
)
