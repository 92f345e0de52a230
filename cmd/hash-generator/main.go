// Command hash-generator prints bcrypt hashes for passwords, for seeding
// accounts (such as ADMIN users) directly in the database.
//
// Usage:
//
//	hash-generator [-cost N] password...
//	echo password | hash-generator
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hash-generator:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	passwords := fs.Args()
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}
	if len(passwords) == 0 {
		return errors.New("no passwords given")
	}

	hasher := auth.NewBcryptHasher(*cost)
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(stdout, hash); err != nil {
			return err
		}
	}
	return nil
}
