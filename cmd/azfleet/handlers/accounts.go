package handlers

import (
	"context"
	"fmt"
)

// Accounts lists the storage accounts visible to the profile's credentials.
func Accounts(ctx context.Context, profilePath string) error {
	env, err := setup(ctx, profilePath)
	if err != nil {
		return err
	}
	defer env.close()

	accounts, err := env.client.ListStorageAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("no storage accounts visible")
		return nil
	}
	for _, account := range accounts {
		fmt.Printf("%s\t%s\n", account.Name, account.Location)
	}
	return nil
}
