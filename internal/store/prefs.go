package store

// DarkMode returns the persisted dark-mode preference, defaulting to false.
func (s *Store) DarkMode() bool {
	var enabled bool
	if !s.getCache(keyDarkMode, &enabled) {
		return false
	}
	return enabled
}

// SetDarkMode persists the dark-mode preference.
func (s *Store) SetDarkMode(enabled bool) error {
	return s.set(keyDarkMode, enabled)
}
