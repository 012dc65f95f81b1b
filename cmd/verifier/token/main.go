// Command token issues a payee JWT signed with the configured auth secret.
// Run with: go run ./cmd/verifier/token -config config.yaml -payee <id> -email <addr>
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/chainsafe/payment-verifier/pkg/auth"
	"github.com/chainsafe/payment-verifier/pkg/config"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	payeeID := flag.String("payee", "", "Payee ID (random UUID when empty)")
	email := flag.String("email", "", "Payee email")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	if *payeeID == "" {
		*payeeID = uuid.NewString()
	}

	token, err := auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(*payeeID, *email, *ttl)
	if err != nil {
		log.Fatalf("error issuing token: %s", err.Error())
	}

	fmt.Println("Payee:", *payeeID)
	fmt.Println("Expires:", time.Now().Add(*ttl).UTC().Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
}
