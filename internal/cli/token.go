package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/seat-arbiter/internal/utils"
)

func newTokenCmd() *cobra.Command {
	var requester, class, secret string
	var ttl int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a requester",
		Long:  `Signs an access token with JWT_SECRET (or --secret) for use against the claim endpoints.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("JWT_SECRET is not set; pass --secret")
			}
			role := strings.ToUpper(strings.TrimSpace(class))
			switch role {
			case utils.RoleVIP, utils.RoleRegular, utils.RoleOperator:
			default:
				return fmt.Errorf("unknown class %q", class)
			}
			tok, err := utils.NewAccessToken(secret, strings.TrimSpace(requester), role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&requester, "requester", "", "requester id (token subject)")
	f.StringVar(&class, "class", utils.RoleRegular, "VIP, REGULAR or OPERATOR")
	f.StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	f.IntVar(&ttl, "ttl", 60, "lifetime in minutes")
	_ = cmd.MarkFlagRequired("requester")
	return cmd
}

func newHashKeyCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-key KEY",
		Short: "Print the bcrypt hash of an admin key for ADMIN_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashKey(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
