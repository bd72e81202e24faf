package discovery

// SkipSet remembers keys that were already processed or rejected so
// discovery does not offer them again. It is bounded: once full, the
// oldest entries roll off. Single-threaded like the rest of the bot.
type SkipSet struct {
	capacity int
	members  map[string]bool
	order    []string
}

// NewSkipSet creates a set holding at most capacity keys.
func NewSkipSet(capacity int) *SkipSet {
	if capacity < 1 {
		capacity = 1
	}
	return &SkipSet{
		capacity: capacity,
		members:  make(map[string]bool, capacity),
	}
}

// Add records a key, evicting the oldest entry when full.
func (s *SkipSet) Add(key string) {
	if s.members[key] {
		return
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.members, oldest)
	}
	s.members[key] = true
	s.order = append(s.order, key)
}

// Contains reports whether a key is in the set.
func (s *SkipSet) Contains(key string) bool {
	return s.members[key]
}

// Len returns the current member count.
func (s *SkipSet) Len() int {
	return len(s.order)
}

// Seed bulk-loads keys, typically the store's existing entity names.
func (s *SkipSet) Seed(keys []string) {
	for _, key := range keys {
		s.Add(key)
	}
}
