// Command genhash prints a bcrypt hash for seeding staff and admin passwords by hand.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"vnbank.backend/pkg/crypto"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	password := fs.String("password", "", "plain-text password to hash")
	cost := fs.Int("cost", 0, "bcrypt cost (default cost when zero)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		return errors.New("password is required")
	}
	if *cost > 0 {
		crypto.SetCost(*cost)
	}

	hash, err := crypto.HashPassword(*password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
