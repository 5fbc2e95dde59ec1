package appdata

import (
	"fmt"
	"strings"
)

// Platform selects which Bonelab install receives mods on Windows hosts.
type Platform int

const (
	PlatformWindows Platform = iota
	PlatformQuest
)

// PlatformFromIndex converts a menu index into a Platform.
func PlatformFromIndex(i int) (Platform, error) {
	if p := Platform(i); p.valid() {
		return p, nil
	}
	return 0, fmt.Errorf("platform only accepts values equal to 0 or 1, got %d", i)
}

// ParsePlatform parses "windows" or "quest", ignoring case.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows":
		return PlatformWindows, nil
	case "quest":
		return PlatformQuest, nil
	default:
		return 0, fmt.Errorf("unknown platform %q (want windows or quest)", s)
	}
}

func (p Platform) valid() bool {
	return p == PlatformWindows || p == PlatformQuest
}

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "Windows"
	case PlatformQuest:
		return "Quest"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}
