// Package main provides a small CLI for minting aircast service tokens.
// Tokens are issued out-of-band; the API only validates them.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aircast/aircast/internal/auth"
)

func main() {
	subject := flag.String("subject", "", "subject claim for the token (required)")
	role := flag.String("role", auth.RoleAdmin, "role claim for the token")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -subject is required")
		flag.Usage()
		os.Exit(2)
	}

	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		fmt.Fprintln(os.Stderr, "tokengen: JWT_SIGNING_KEY must be set")
		os.Exit(2)
	}

	svc := auth.NewService(auth.Config{
		SigningKey: signingKey,
		Issuer:     auth.DefaultIssuer,
		TokenTTL:   *ttl,
	})

	token, expiresAt, err := svc.GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires: %s\n", expiresAt.UTC().Format(time.RFC3339))
}
