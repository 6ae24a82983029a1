package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tutorsync/storage/database"
)

func (cli *commandLine) seed() error {
	seeded, err := database.SeedIfEmpty(context.Background(), cli.db)
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Println("store is not empty; nothing to seed")
		return nil
	}
	fmt.Println("demo data loaded")
	return nil
}
