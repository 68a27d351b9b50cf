// Command hash-generator prints the bcrypt hash of a password, for seeding
// learner accounts or repairing credentials by hand.
//
// Usage:
//
//	hash-generator [-cost N] <password>
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost N] <password>")
		os.Exit(2)
	}
	password := flag.Arg(0)

	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		fmt.Fprintf(os.Stderr, "cost must be between %d and %d\n", bcrypt.MinCost, bcrypt.MaxCost)
		os.Exit(2)
	}

	// bcrypt operates on at most 72 bytes; longer inputs would be silently
	// truncated on verification, so reject them here.
	if len(password) > 72 {
		fmt.Fprintln(os.Stderr, "password exceeds bcrypt's 72-byte limit")
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(hash))
}
