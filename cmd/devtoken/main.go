// Command devtoken mints credentials for local use. By default it signs a
// bearer token for a ledger identity with the server's signing
// configuration. With -operator it generates an operator token and the
// bcrypt hash to put in ADMIN_API_TOKEN_HASH. It refuses to run in
// production.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "consentgate/internal/jwt_token"
	"consentgate/internal/platform/config"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/secrets"
)

func main() {
	subject := flag.String("sub", "", "ledger identity to act as")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	operator := flag.Bool("operator", false, "generate an operator token and its bcrypt hash")
	flag.Parse()

	cfg := config.FromEnv()
	if cfg.IsProduction() {
		fmt.Fprintln(os.Stderr, "devtoken is disabled in production")
		os.Exit(1)
	}

	if *operator {
		if err := printOperatorToken(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	identity, err := id.ParseIdentity(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -sub: %v\n", err)
		os.Exit(2)
	}

	svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	token, err := svc.GenerateAccessToken(identity.String(), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func printOperatorToken() error {
	token, err := secrets.Generate()
	if err != nil {
		return err
	}
	hash, err := secrets.Hash(token)
	if err != nil {
		return err
	}
	fmt.Printf("X-Admin-Token: %s\nADMIN_API_TOKEN_HASH=%s\n", token, hash)
	return nil
}
