package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/service"
)

// issue-token mints a signed bearer token for local testing and operator
// scripts. Identity itself is owned by the upstream auth provider.
func main() {
	var userID, role string
	var ttl time.Duration
	flag.StringVar(&userID, "user", "", "Subject user id (random when empty)")
	flag.StringVar(&role, "role", string(service.RoleUser), "Role claim: user or admin")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRY_HOURS)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// Secret
	if os.Getenv("JWT_SECRET") == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: JWT_SECRET is not set")
			os.Exit(1)
		}
		fmt.Fprint(os.Stderr, "Enter JWT secret: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr) // Newline after secret input
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading secret")
			os.Exit(1)
		}
		cfg.JWTSecret = strings.TrimSpace(string(secret))
		if cfg.JWTSecret == "" {
			fmt.Fprintln(os.Stderr, "Error: secret is required")
			os.Exit(1)
		}
	}

	// Subject
	subject := uuid.New()
	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: -user must be a UUID")
			os.Exit(1)
		}
		subject = parsed
	}

	token, err := service.NewAuthService(cfg).GenerateToken(subject, service.Role(role), ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Issued %s token for %s\n", role, subject)
	fmt.Println(token)
}
