package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igbatch/pkg/auth"
	"igbatch/pkg/config"
	"igbatch/pkg/errors"
	"igbatch/pkg/instagram"
	"igbatch/pkg/logger"
	"igbatch/pkg/ui"
)

var verifyLogin bool

// stdin is shared so buffered input is not lost between prompts
var stdin = bufio.NewReader(os.Stdin)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Instagram login",
	Long: `Manage the Instagram login used for scraping.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables IGBATCH_USERNAME and IGBATCH_PASSWORD (read only)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store an Instagram login",
	Example: `  # Interactive login
  igbatch auth login

  # Store and check the login against Instagram
  igbatch auth login myaccount --verify`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove a stored login",
	Long: `Remove a stored Instagram login.

Without a username the only stored account is removed, or you are asked
to pick one when there are several.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored logins",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().BoolVar(&verifyLogin, "verify", false, "log in to Instagram once before storing")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if !ui.IsQuiet() {
		auth.ShowLoginGuide()
	}

	var username string
	if len(args) > 0 {
		username = strings.TrimSpace(args[0])
	}
	if username == "" {
		fmt.Print("Instagram username: ")
		username, err = readLine()
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	username = strings.TrimPrefix(username, "@")
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Printf("Account '%s' already exists. Update the password? (y/N): ", username)
		answer, _ := readLine()
		if !strings.HasPrefix(strings.ToLower(answer), "y") {
			return nil
		}
	}

	fmt.Print("Password: ")
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	account := &auth.Account{Username: username, Password: password}

	if verifyLogin {
		ui.PrintHighlight("Checking login with Instagram...")
		if err := testCredentials(cmd.Context(), account); err != nil {
			if errors.IsType(err, errors.ErrorTypeTwoFactor) {
				auth.ShowTwoFactorHelp(username)
				return &reportedError{err: err}
			}
			return err
		}
		ui.PrintSuccess("Login works")
	}

	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.PrintSuccess("Account saved: " + username)
	ui.PrintInfo("Next", "igbatch scrape -b <batchfile> --posts <n>")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			ui.PrintWarning("No stored accounts found")
			return nil
		}
		username, err = chooseAccount(accounts)
		if err != nil || username == "" {
			return err
		}
	}

	if err := manager.Delete(username); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}
	ui.PrintSuccess("Account removed: " + username)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'igbatch auth login' to add an account")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Username: %s\n", i+1, sanitized.Username)
		fmt.Printf("   Password: %s\n", sanitized.Password)
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
	return nil
}

// chooseAccount asks which account to remove. An empty name means cancel.
func chooseAccount(accounts []*auth.Account) (string, error) {
	if len(accounts) == 1 {
		fmt.Printf("Remove account '%s'? (y/N): ", accounts[0].Username)
		answer, _ := readLine()
		if !strings.HasPrefix(strings.ToLower(answer), "y") {
			return "", nil
		}
		return accounts[0].Username, nil
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Username)
	}
	fmt.Printf("  0. Cancel\n\n")
	fmt.Print("Choice: ")

	input, _ := readLine()
	var choice int
	fmt.Sscanf(input, "%d", &choice)

	switch {
	case choice == 0:
		return "", nil
	case choice > 0 && choice <= len(accounts):
		return accounts[choice-1].Username, nil
	default:
		return "", fmt.Errorf("invalid choice: %s", input)
	}
}

func readLine() (string, error) {
	input, err := stdin.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword reads a password from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	// Piped input
	return readLine()
}

// testCredentials logs in once with the configured client settings
func testCredentials(ctx context.Context, account *auth.Account) error {
	cfg, err := config.LoadUnvalidated(configFile, nil)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	client := instagram.NewClient(cfg, logger.NewNopLogger())
	return client.Authenticate(ctx, account.Credentials())
}
