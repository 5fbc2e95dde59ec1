package appdata

import (
	"errors"
	"path/filepath"
	"testing"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLocator_StatePath(t *testing.T) {
	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{
			name: "linux",
			goos: "linux",
			env:  map[string]string{"HOME": "/home/user"},
			want: filepath.Join("/home/user", "var", "lib", "bonelab_mod_manager", "app_data"),
		},
		{
			name: "other unix uses the linux layout",
			goos: "freebsd",
			env:  map[string]string{"HOME": "/home/user"},
			want: filepath.Join("/home/user", "var", "lib", "bonelab_mod_manager", "app_data"),
		},
		{
			name: "darwin",
			goos: "darwin",
			env:  map[string]string{"HOME": "/Users/user"},
			want: filepath.Join("/Users/user", "Library", "Application Support", "com.valentinegb.bonelab_mod_manager", "app_data"),
		},
		{
			name: "windows",
			goos: "windows",
			env:  map[string]string{"AppData": "/Users/user/AppData/Roaming", "HOME": "/ignored"},
			want: filepath.Join("/Users/user/AppData/Roaming", "bonelab_mod_manager", "app_data"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLocatorFor(tt.goos, envOf(tt.env))
			got, err := l.StatePath()
			if err != nil {
				t.Fatalf("StatePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StatePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocator_MissingEnv(t *testing.T) {
	tests := []struct {
		name string
		goos string
		env  map[string]string
	}{
		{name: "linux unset", goos: "linux", env: map[string]string{}},
		{name: "linux empty", goos: "linux", env: map[string]string{"HOME": ""}},
		{name: "windows ignores HOME", goos: "windows", env: map[string]string{"HOME": "/home/user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLocatorFor(tt.goos, envOf(tt.env))

			if _, err := l.StatePath(); !errors.Is(err, ErrEnvironment) {
				t.Errorf("StatePath() error = %v, want ErrEnvironment", err)
			}
			if _, err := l.DirPath(); !errors.Is(err, ErrEnvironment) {
				t.Errorf("DirPath() error = %v, want ErrEnvironment", err)
			}

			state := NewAppState()
			state.SetPlatform(PlatformQuest)
			if _, err := l.ModsDir(state); !errors.Is(err, ErrEnvironment) {
				t.Errorf("ModsDir() error = %v, want ErrEnvironment", err)
			}
		})
	}
}

func TestLocator_ModsDir(t *testing.T) {
	appData := filepath.Join("/Users", "user", "AppData", "Roaming")
	windows := NewLocatorFor("windows", envOf(map[string]string{"AppData": appData}))
	linux := NewLocatorFor("linux", envOf(map[string]string{"HOME": "/home/user"}))

	t.Run("windows requires platform", func(t *testing.T) {
		_, err := windows.ModsDir(NewAppState())
		if !errors.Is(err, ErrConfigurationMissing) {
			t.Errorf("ModsDir() error = %v, want ErrConfigurationMissing", err)
		}
	})

	t.Run("platform is checked before the environment", func(t *testing.T) {
		l := NewLocatorFor("windows", envOf(nil))
		_, err := l.ModsDir(NewAppState())
		if !errors.Is(err, ErrConfigurationMissing) {
			t.Errorf("ModsDir() error = %v, want ErrConfigurationMissing", err)
		}
	})

	t.Run("windows desktop uses Bonelab's folder", func(t *testing.T) {
		state := NewAppState()
		state.SetPlatform(PlatformWindows)

		got, err := windows.ModsDir(state)
		if err != nil {
			t.Fatalf("ModsDir() error = %v", err)
		}
		want := filepath.Join("/Users", "user", "AppData", "Locallow", "Stress Level Zero", "Bonelab", "Mods")
		if got != want {
			t.Errorf("ModsDir() = %q, want %q", got, want)
		}
	})

	t.Run("windows desktop needs a parent directory", func(t *testing.T) {
		l := NewLocatorFor("windows", envOf(map[string]string{"AppData": string(filepath.Separator)}))
		state := NewAppState()
		state.SetPlatform(PlatformWindows)

		if _, err := l.ModsDir(state); !errors.Is(err, ErrEnvironment) {
			t.Errorf("ModsDir() error = %v, want ErrEnvironment", err)
		}
	})

	t.Run("unknown platform value", func(t *testing.T) {
		state := NewAppState()
		state.SetPlatform(Platform(7))

		if _, err := windows.ModsDir(state); !errors.Is(err, ErrInvalidPlatform) {
			t.Errorf("ModsDir() error = %v, want ErrInvalidPlatform", err)
		}
	})

	t.Run("quest stages mods next to app data", func(t *testing.T) {
		state := NewAppState()
		state.SetPlatform(PlatformQuest)

		got, err := windows.ModsDir(state)
		if err != nil {
			t.Fatalf("ModsDir() error = %v", err)
		}
		want := filepath.Join(appData, "bonelab_mod_manager", "Mods")
		if got != want {
			t.Errorf("ModsDir() = %q, want %q", got, want)
		}
		if filepath.Base(got) != "Mods" {
			t.Errorf("ModsDir() = %q, want a path ending in Mods", got)
		}
	})

	t.Run("unix ignores platform", func(t *testing.T) {
		got, err := linux.ModsDir(NewAppState())
		if err != nil {
			t.Fatalf("ModsDir() error = %v", err)
		}
		want := filepath.Join("/home/user", "var", "lib", "bonelab_mod_manager", "Mods")
		if got != want {
			t.Errorf("ModsDir() = %q, want %q", got, want)
		}
	})
}

func TestLocator_RootEnvVar(t *testing.T) {
	if got := NewLocatorFor("windows", nil).RootEnvVar(); got != "AppData" {
		t.Errorf("RootEnvVar() = %q, want AppData", got)
	}
	if got := NewLocatorFor("darwin", nil).RootEnvVar(); got != "HOME" {
		t.Errorf("RootEnvVar() = %q, want HOME", got)
	}
	if !NewLocatorFor("windows", nil).RequiresPlatform() {
		t.Error("RequiresPlatform() = false on windows")
	}
	if NewLocatorFor("linux", nil).RequiresPlatform() {
		t.Error("RequiresPlatform() = true on linux")
	}
}
