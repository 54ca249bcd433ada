package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/infrastructure/security"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	var (
		cost  int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the stored digest for a password",
		Long: `Print the bcrypt digest the API would store for a password. The password
is read from the first argument or, when absent, from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordArg(cmd, args)
			if err != nil {
				return err
			}
			if !force {
				if err := domain.ValidatePassword(password); err != nil {
					return oops.Code("WEAK_PASSWORD").Wrap(err)
				}
			}

			digest, err := security.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return oops.Code("HASH_FAILED").Wrap(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	cmd.Flags().BoolVar(&force, "force", false, "skip the password complexity rules")
	return cmd
}

func passwordArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", oops.Code("INPUT_MISSING").Wrapf(err, "read password from stdin")
		}
		return "", oops.Code("INPUT_MISSING").Errorf("password is empty")
	}
	return line, nil
}
