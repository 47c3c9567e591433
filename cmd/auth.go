package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <access-token>",
	Short: "Store the access token of your account",
	Long: `Store the bearer token used by the wizards. The token's expiry is read
from its "exp" claim; an expired session behaves like no session at all and
sends the wizards back to the email step.

Examples:
  swapwizard login eyJhbGciOi...`,
	Args: cobra.ExactArgs(1),
	Run:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Run:   runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user of the stored session",
	Run:   runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	cred := session.Credential{
		AccessToken: args[0],
		ExpiresAt:   session.ExpiryFromToken(args[0]),
	}
	if cred.Expired(time.Now()) {
		exitOnError(fmt.Errorf("access token expired at %s", cred.ExpiresAt.Format(time.RFC3339)))
	}

	subject, err := cred.Subject()
	exitOnError(err)

	exitOnError(a.sessions.Set(cred))
	printSuccess(fmt.Sprintf("Logged in as %s", color.CyanString(subject)))
}

func runLogout(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	exitOnError(a.sessions.Clear())
	printSuccess("Logged out")
}

func runWhoami(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	cred, ok := a.sessions.Get()
	if !ok {
		exitOnError(session.ErrNoSession)
	}

	subject, err := cred.Subject()
	exitOnError(err)

	if a.json {
		printJSON(map[string]any{
			"subject":    subject,
			"expires_at": cred.ExpiresAt,
		})
		return
	}

	fmt.Printf("\n  User:    %s\n", color.CyanString(subject))
	if !cred.ExpiresAt.IsZero() {
		fmt.Printf("  Expires: %s\n", cred.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	if store, ok := a.sessions.(*session.FileStore); ok {
		fmt.Printf("  Session: %s\n", store.FilePath())
	}
	fmt.Println()
}
