package blacklist

// Backend is a blacklist the client can curate. *Store keeps it in a JSON
// file, *RedisStore in two Redis sets shared between users.
type Backend interface {
	ContainsURL(url string) bool
	ContainsKey(key string) bool
	Add(url, key string) bool
	Remove(entry string) bool
	Clear()
	URLs() []string
	Keys() []string
	Len() (urls, keys int)
	Dirty() bool
	Reload() error
	Save() error
	Path() string
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*RedisStore)(nil)
)
