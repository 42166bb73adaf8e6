package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// themes offered by set-theme.
var themes = []string{"dark", "light"}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure relays, your signing key and the terminal theme.

Settings are stored in ~/.scholarstr/config.toml. Environment variables
(SCHOLARSTR_RELAY_URLS, SCHOLARSTR_SECRET_KEY, SCHOLARSTR_HTTP_ADDR) and a
.env file override the stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsRelaysCmd = &cobra.Command{
	Use:   "set-relays <url>...",
	Short: "Replace the relay list",
	Long:  `Replace the configured relays. Every URL must use ws:// or wss://.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSettingsRelays,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "set-key [nsec]",
	Short: "Store your signing key",
	Long: `Store the secret key used to sign papers and comments, as nsec or hex.
Without an argument the key is read from the terminal without echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsKey,
}

var settingsThemeCmd = &cobra.Command{
	Use:   "set-theme [dark|light]",
	Short: "Set the terminal UI theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsTheme,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsRelaysCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Relays]")
	for _, u := range settings.RelayURLs {
		cmd.Printf("  %s\n", u)
	}
	cmd.Printf("  Query timeout: %s\n", settings.QueryTimeout)
	cmd.Printf("  Stats timeout: %s\n", settings.StatsTimeout)
	cmd.Printf("  Rate limit:    %g req/s per relay\n", settings.RatePerSecond)
	cmd.Println()

	cmd.Println("[Signer]")
	if settings.HasSecretKey {
		cmd.Printf("  Key: %s\n", maskAPIKey(settingsService.SecretKey()))
	} else {
		cmd.Println("  Key: (not set)")
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.HTTPAddr)
	cmd.Printf("  Feed refresh: every %s\n", settings.RefreshInterval)
	cmd.Println()

	cmd.Println("[Interface]")
	cmd.Printf("  Theme: %s\n", settings.Theme)

	if !settings.HasSecretKey {
		cmd.Println()
		cmd.Println("Run 'scholarstr settings set-key' to publish papers and comments.")
	}
	return nil
}

func runSettingsRelays(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var urls []string
	for _, a := range args {
		urls = append(urls, strings.Split(a, ",")...)
	}
	if err := settingsService.SetRelays(urls); err != nil {
		return fmt.Errorf("failed to set relays: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Relays set to: %s\n", strings.Join(settings.RelayURLs, ", "))
	return nil
}

func runSettingsKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		cmd.Print("Enter secret key (nsec or hex): ")
		key = readPassword(cmd.InOrStdin())
		cmd.Println()
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("secret key is required")
	}

	pubkey := ""
	if validateKey != nil {
		pk, err := validateKey(key)
		if err != nil {
			return fmt.Errorf("invalid secret key: %w", err)
		}
		pubkey = pk
	}

	if err := settingsService.SetSecretKey(key); err != nil {
		return fmt.Errorf("failed to store secret key: %w", err)
	}

	cmd.Println("Secret key stored.")
	if pubkey != "" {
		cmd.Printf("Public key: %s\n", pubkey)
	}
	return nil
}

func runSettingsTheme(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var theme string
	if len(args) == 1 {
		theme = args[0]
	} else {
		cmd.Println("Select Theme")
		cmd.Println("------------")
		for i, t := range themes {
			cmd.Printf("  %d. %s\n", i+1, t)
		}
		cmd.Print("\nEnter choice [1]: ")
		idx := parseChoice(readLine(bufio.NewReader(cmd.InOrStdin())), len(themes), 1)
		theme = themes[idx-1]
	}

	if err := settingsService.SetTheme(theme); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("unknown theme %q (choose dark or light)", theme)
		}
		return fmt.Errorf("failed to set theme: %w", err)
	}
	cmd.Printf("Theme set to: %s\n", theme)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is the terminal.
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(bufio.NewReader(in))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
