package auth

import (
	"fmt"
	"strings"
)

// ShowLoginGuide explains what the stored login is used for
func ShowLoginGuide() {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("INSTAGRAM LOGIN")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println("igbatch logs in with a username and password before every batch run.")
	fmt.Println("Follower and followee lists are only visible to logged-in accounts.")
	fmt.Println()
	fmt.Println("  • Use a secondary account; heavy scraping can get an account restricted")
	fmt.Println("  • Two-factor authentication must be disabled for this account")
	fmt.Println("  • The password is kept in the system keychain, or in an encrypted")
	fmt.Println("    file when no keychain is available")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
}

// ShowTwoFactorHelp is printed when Instagram asks for a second factor
func ShowTwoFactorHelp(username string) {
	fmt.Printf("This account (%s) requires two-factor authentication. The scraper is not able to handle 2FA at this time. Please disable two-factor authentication for this account and try again.\n", username)
}
