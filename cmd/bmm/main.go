package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"bmm/internal/app"
	"bmm/internal/appdata"
	"bmm/internal/encryption"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	labelColor   = color.New(color.Bold)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "ReadState", "RecordMod").
func newApp(operation string) (*app.App, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := paths.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func printSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

func printWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

func printLabelValue(label, value string) {
	_, _ = labelColor.Printf("%-10s ", label+":")
	fmt.Println(value)
}

// displayFolder quotes folder names that are not valid UTF-8.
func displayFolder(folder string) string {
	if utf8.ValidString(folder) {
		return folder
	}
	return strconv.Quote(folder)
}

func parseModID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid mod id %q: must be an unsigned integer", s)
	}
	return id, nil
}

// parseDate accepts epoch seconds or an RFC 3339 timestamp.
func parseDate(s string) (uint64, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: want epoch seconds or RFC 3339", s)
	}
	if t.Unix() < 0 {
		return 0, fmt.Errorf("invalid date %q: before 1970", s)
	}
	return uint64(t.Unix()), nil
}

// readToken reads the mod.io token without echo when stdin is a terminal,
// otherwise it takes the first line of in.
func readToken(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, "mod.io token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

var rootCmd = &cobra.Command{
	Use:          "bmm",
	Short:        "Bonelab mod manager state tool",
	SilenceUsage: true,
}

// state command
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and manage the app data file",
}

var statePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the app data file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("StatePath")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.StatePath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show installed mods and platform configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ReadState")
		if err != nil {
			return err
		}
		defer a.Close()

		state, err := a.State()
		if err != nil {
			return err
		}

		if a.RequiresPlatform() || state.Platform != nil {
			platform := "not set"
			if state.Platform != nil {
				platform = state.Platform.String()
			}
			token := "not set"
			if state.ModioToken != nil {
				token = "set"
				if encryption.IsSealed(*state.ModioToken) {
					token = "set (sealed)"
				}
			}
			printLabelValue("Platform", platform)
			printLabelValue("Token", token)
		}

		if len(state.InstalledMods) == 0 {
			fmt.Println("No mods installed.")
			return nil
		}

		for _, id := range state.ModIDs() {
			mod := state.InstalledMods[id]
			updated := time.Unix(int64(mod.DateUpdated), 0).UTC().Format("2006-01-02 15:04:05")
			fmt.Printf("%-12d  %s  %s\n", id, updated, displayFolder(mod.Folder))
		}
		return nil
	},
}

var stateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the app data file decodes, without repairing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("InspectState")
		if err != nil {
			return err
		}
		defer a.Close()

		ins, err := a.Inspect()
		if err != nil {
			return err
		}

		printLabelValue("Path", ins.Path)
		switch {
		case !ins.Exists:
			printWarning("app data file does not exist yet")
		case ins.DecodeErr == nil:
			printSuccess(fmt.Sprintf("app data is valid (%d bytes)", ins.Size))
		case ins.Corrupted:
			printWarning(fmt.Sprintf("app data is corrupted and will be reset on next read: %v", ins.DecodeErr))
		default:
			return fmt.Errorf("app data cannot be decoded: %w", ins.DecodeErr)
		}
		return nil
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the app data with an empty state",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this forgets every installed mod record; pass --yes to confirm")
		}

		a, err := newApp("ResetState")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Reset(); err != nil {
			return err
		}
		printSuccess("app data reset")
		return nil
	},
}

// mods command
var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Manage installed mod records",
}

var modsDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the directory mods are installed into",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ModsDir")
		if err != nil {
			return err
		}
		defer a.Close()

		dir, err := a.ModsDir()
		if errors.Is(err, appdata.ErrConfigurationMissing) {
			return fmt.Errorf("%w: run `bmm platform set windows|quest` first", err)
		}
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	},
}

var modsRecordCmd = &cobra.Command{
	Use:   "record ID DATE_UPDATED FOLDER",
	Short: "Record an installed mod, replacing any previous record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseModID(args[0])
		if err != nil {
			return err
		}
		date, err := parseDate(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("RecordMod")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RecordMod(id, date, args[2]); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("recorded mod %d in %s", id, displayFolder(args[2])))
		return nil
	},
}

var modsForgetCmd = &cobra.Command{
	Use:   "forget ID",
	Short: "Remove an installed mod record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseModID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("ForgetMod")
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.ForgetMod(id)
		if err != nil {
			return err
		}
		if !removed {
			printWarning(fmt.Sprintf("mod %d is not recorded", id))
			return nil
		}
		printSuccess(fmt.Sprintf("forgot mod %d", id))
		return nil
	},
}

var modsScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Compare recorded mods with the folders in the mods directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ScanMods")
		if err != nil {
			return err
		}
		defer a.Close()

		r, dir, err := a.ScanMods()
		if err != nil {
			return err
		}

		printLabelValue("Mods dir", dir)
		if r.Clean() {
			printSuccess("records match the mods directory")
			return nil
		}
		for _, folder := range r.Untracked {
			fmt.Printf("untracked  %s\n", displayFolder(folder))
		}
		for _, id := range r.Missing {
			fmt.Printf("missing    %d\n", id)
		}
		return nil
	},
}

// platform command
var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Configure which Bonelab install receives mods (Windows)",
}

var platformSetCmd = &cobra.Command{
	Use:   "set windows|quest",
	Short: "Choose the platform and optionally store a mod.io token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := appdata.ParsePlatform(args[0])
		if err != nil {
			return err
		}

		var token *string
		if askToken, _ := cmd.Flags().GetBool("token"); askToken {
			t, err := readToken(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if t == "" {
				return fmt.Errorf("token must not be empty")
			}
			token = &t
		}

		a, err := newApp("SetPlatform")
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.RequiresPlatform() {
			printWarning("this host always uses the default mods directory; the platform is stored but unused")
		}
		if err := a.SetPlatform(p, token); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("platform set to %s", p))
		return nil
	},
}

var platformTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the stored mod.io token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ReadToken")
		if err != nil {
			return err
		}
		defer a.Close()

		token, ok, err := a.ModioToken()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no mod.io token is stored")
		}
		fmt.Println(token)
		return nil
	},
}

var platformClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Unset the platform and mod.io token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ClearPlatform")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ClearPlatform(); err != nil {
			return err
		}
		printSuccess("platform configuration cleared")
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := paths.InitConfig()
		if err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		printSuccess(fmt.Sprintf("configuration initialized at %s", paths.ConfigPath))
		printLabelValue("Base Dir", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := paths.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", paths.ConfigPath)
		printLabelValue("Base Dir", cfg.BaseDir)
		printLabelValue("Log Dir", cfg.LogDir)
		printLabelValue("Log Level", cfg.LogLevel)
		printLabelValue("Ignore", strings.Join(cfg.Mods.Ignore, ", "))
		printLabelValue("Seal", strconv.FormatBool(cfg.Token.Seal))
		printLabelValue("Identity", cfg.Token.IdentityFile)
		return nil
	},
}

func init() {
	// state subcommands
	stateCmd.AddCommand(statePathCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateCheckCmd)
	stateCmd.AddCommand(stateResetCmd)
	stateResetCmd.Flags().Bool("yes", false, "Confirm the reset")

	// mods subcommands
	modsCmd.AddCommand(modsDirCmd)
	modsCmd.AddCommand(modsRecordCmd)
	modsCmd.AddCommand(modsForgetCmd)
	modsCmd.AddCommand(modsScanCmd)

	// platform subcommands
	platformCmd.AddCommand(platformSetCmd)
	platformCmd.AddCommand(platformTokenCmd)
	platformCmd.AddCommand(platformClearCmd)
	platformSetCmd.Flags().Bool("token", false, "Read a mod.io token from the terminal or stdin")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(modsCmd)
	rootCmd.AddCommand(platformCmd)
	rootCmd.AddCommand(configCmd)
}
