package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankledger-cli",
		Short: "bankledger CLI tool",
		Long:  `A command line interface for interacting with the bankledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the bankledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		createAccountCmd(),
		closeAccountCmd(),
		getAccountCmd(),
		listAccountsCmd(),
		balanceCmd(),
		ledgerCmd(),
		depositCmd(),
		withdrawCmd(),
		transferCmd(),
		getTransactionCmd(),
		listTransactionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createAccountCmd() *cobra.Command {
	var userID, accountType, currency string

	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts", map[string]string{
				"user_id":  userID,
				"type":     accountType,
				"currency": currency,
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Owning user ID")
	cmd.Flags().StringVar(&accountType, "type", "checking", "Account type (checking, savings, wallet)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")
	cmd.MarkFlagRequired("user")

	return cmd
}

func closeAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close-account <account-id>",
		Short: "Close an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts/"+args[0]+"/close", struct{}{})
		},
	}
}

func getAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0])
		},
	}
}

func listAccountsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(fmt.Sprintf("/api/v1/accounts?limit=%d&offset=%d", limit, offset))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum accounts to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Accounts to skip")

	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account's derived balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0] + "/balance")
		},
	}
}

func ledgerCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "ledger <account-id>",
		Short: "List an account's postings, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(fmt.Sprintf("/api/v1/accounts/%s/ledger?limit=%d&offset=%d", args[0], limit, offset))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")

	return cmd
}

func depositCmd() *cobra.Command {
	var accountID, amount string

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit into an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transactions/deposit", map[string]string{
				"account_id": accountID,
				"amount":     amount,
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to deposit")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var accountID, amount string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw from an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transactions/withdraw", map[string]string{
				"account_id": accountID,
				"amount":     amount,
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transactions/transfer", map[string]string{
				"source_account_id":      from,
				"destination_account_id": to,
				"amount":                 amount,
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source account ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func getTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transaction <transaction-id>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/transactions/" + args[0])
		},
	}
}

func listTransactionsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "transactions <account-id>",
		Short: "List transactions touching an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(fmt.Sprintf("/api/v1/accounts/%s/transactions?limit=%d&offset=%d", args[0], limit, offset))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Transactions to skip")

	return cmd
}

func postJSON(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	// Each invocation gets a fresh key; the server replays the recorded
	// response if the same request is retried at the transport level.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	return doRequest(req)
}

func getJSON(path string) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}

	return doRequest(req)
}

func doRequest(req *http.Request) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, body)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return nil
	}
	printJSON(pretty)

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
