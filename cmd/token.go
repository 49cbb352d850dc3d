package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsift/internal/google"
)

func newTokenCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Perform the one-time OAuth consent flow and print credentials",
		Long: `Token walks through the installed-app OAuth consent flow once and prints
the resulting authorized-user credentials JSON. Save the output to a file
and pass it to 'run' via --credentials-file for unattended runs; the
refresh token keeps working until revoked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" {
				clientID = os.Getenv("GOOGLE_CLIENT_ID")
			}
			if clientSecret == "" {
				clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("client ID and secret are required; pass --client-id/--client-secret or set GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Visit the following URL and authorize access:\n\n%s\n\n",
				google.ConsentURL(clientID, clientSecret))
			fmt.Fprint(cmd.OutOrStdout(), "Enter authorization code: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("empty authorization code")
			}

			creds, err := google.ExchangeAuthCode(cmd.Context(), clientID, clientSecret, code)
			if err != nil {
				return err
			}

			data, err := google.MarshalCredentials(creds)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Google OAuth client secret. Can also use GOOGLE_CLIENT_SECRET env var.")

	return cmd
}
