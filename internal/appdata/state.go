// Package appdata persists the mod manager's small piece of durable state:
// which mods are installed, when each was last updated, and on Windows which
// Bonelab platform and mod.io token are configured.
package appdata

import (
	"maps"
	"slices"
)

// AppState is the persisted root record.
// ModioToken and Platform only matter on Windows hosts; nil means the user
// has not configured them yet.
type AppState struct {
	ModioToken    *string
	Platform      *Platform
	InstalledMods map[uint64]InstalledMod
}

// InstalledMod records where an installed mod lives and which upstream
// revision it came from.
type InstalledMod struct {
	// DateUpdated is the mod's last known update time in epoch seconds.
	DateUpdated uint64
	// Folder is the raw, platform native folder name. It is not required to
	// be valid UTF-8.
	Folder string
}

// NewAppState returns the default state: no mods, no platform configuration.
func NewAppState() *AppState {
	return &AppState{InstalledMods: make(map[uint64]InstalledMod)}
}

// RecordInstall stores mod as the record for id, replacing any earlier one.
func (s *AppState) RecordInstall(id uint64, mod InstalledMod) {
	if s.InstalledMods == nil {
		s.InstalledMods = make(map[uint64]InstalledMod)
	}
	s.InstalledMods[id] = mod
}

// Forget removes the record for id and reports whether one existed.
func (s *AppState) Forget(id uint64) bool {
	if _, ok := s.InstalledMods[id]; !ok {
		return false
	}
	delete(s.InstalledMods, id)
	return true
}

// Installed returns the record for id.
func (s *AppState) Installed(id uint64) (InstalledMod, bool) {
	mod, ok := s.InstalledMods[id]
	return mod, ok
}

// ModIDs returns the installed mod ids in ascending order.
func (s *AppState) ModIDs() []uint64 {
	return slices.Sorted(maps.Keys(s.InstalledMods))
}

func (s *AppState) SetPlatform(p Platform) {
	s.Platform = &p
}

func (s *AppState) SetModioToken(token string) {
	s.ModioToken = &token
}

// ClearPlatformConfig unsets both the platform and the token.
func (s *AppState) ClearPlatformConfig() {
	s.Platform = nil
	s.ModioToken = nil
}

// Equal reports whether two states hold the same records and configuration.
// A nil map and an empty map compare equal.
func (s *AppState) Equal(o *AppState) bool {
	if s == nil || o == nil {
		return s == o
	}
	if !equalPtr(s.ModioToken, o.ModioToken) || !equalPtr(s.Platform, o.Platform) {
		return false
	}
	return maps.Equal(s.InstalledMods, o.InstalledMods)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
