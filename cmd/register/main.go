// Command register is the operator tool for account management: it creates
// accounts (printing the assigned login token) and lists existing ones.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/bankledger/account-ledger-service/internal/config"
	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/ledger"
	"github.com/bankledger/account-ledger-service/internal/storage/postgres"
)

func main() {
	first := flag.String("first", "", "first name of the account holder")
	last := flag.String("last", "", "last name of the account holder")
	list := flag.Bool("list", false, "list all accounts instead of creating one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.StoreDriver != "postgres" {
		log.Fatal("register requires STORE_DRIVER=postgres; the memory store lives inside the server process")
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	var store interfaces.Store = postgres.NewStore(db)
	accounts := ledger.NewAccounts(store)

	if *list {
		all, err := accounts.List(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, acct := range all {
			fmt.Printf("%s  %-20s token=%s balance=%d\n", acct.ID, acct.FullName(), acct.Token, acct.Balance)
		}
		return
	}

	if *first == "" || *last == "" {
		log.Fatal("both -first and -last are required")
	}
	acct, err := accounts.Register(ctx, *first, *last)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("created account %s for %s, token: %s\n", acct.ID, acct.FullName(), acct.Token)
}
