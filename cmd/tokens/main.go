package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/config"
	"weeklymemories/internal/database"
	"weeklymemories/internal/repository"
	"weeklymemories/internal/security"
	"weeklymemories/internal/service"
	"weeklymemories/internal/tokens"
)

// authorCredential is one author's durable token as written to the output file
type authorCredential struct {
	Author   string `json:"author"`
	Token    string `json:"token"`
	WriteURL string `json:"write_url,omitempty"`
}

func main() {
	issueCmd := flag.NewFlagSet("issue", flag.ExitOnError)
	issueOutput := issueCmd.String("output", "secrets.json", "Output file path for the author credentials")

	emailCmd := flag.NewFlagSet("email-token", flag.ExitOnError)
	emailAuthor := emailCmd.String("author", "", "Author to issue a single-use token for (required)")
	emailTTL := emailCmd.Duration("ttl", service.DefaultTokenTTL, "Token lifetime")

	hashCmd := flag.NewFlagSet("hash", flag.ExitOnError)
	hashPassword := hashCmd.String("password", "", "Password to hash for ADMIN_PASSWORD_HASH (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	godotenv.Load()
	cfg := config.Load()

	switch os.Args[1] {
	case "issue":
		issueCmd.Parse(os.Args[2:])
		handleIssue(cfg, *issueOutput)

	case "email-token":
		emailCmd.Parse(os.Args[2:])
		if *emailAuthor == "" {
			fmt.Println("Error: -author flag is required")
			emailCmd.PrintDefaults()
			os.Exit(1)
		}
		handleEmailToken(cfg, *emailAuthor, *emailTTL)

	case "hash":
		hashCmd.Parse(os.Args[2:])
		if *hashPassword == "" {
			fmt.Println("Error: -password flag is required")
			hashCmd.PrintDefaults()
			os.Exit(1)
		}
		handleHash(*hashPassword)

	default:
		printUsage()
		os.Exit(1)
	}
}

// handleIssue mints one durable signed token per configured author and writes
// them to a credentials file. Tokens stay valid as long as the secret does.
func handleIssue(cfg *config.Config, outputPath string) {
	secret, err := security.LoadOrCreateSecret(cfg.SecretFile)
	if err != nil {
		log.Fatalf("Failed to load signing secret: %v", err)
	}

	codec := tokens.NewCodec(secret, cfg.Authors)

	credentials := make([]authorCredential, 0, len(cfg.Authors))
	for _, author := range cfg.Authors {
		token, err := codec.Issue(author)
		if err != nil {
			log.Fatalf("Failed to issue token for %s: %v", author, err)
		}
		cred := authorCredential{Author: author, Token: token}
		if cfg.ExternalBaseURL != "" {
			cred.WriteURL = strings.TrimRight(cfg.ExternalBaseURL, "/") + "/write?token=" + token + "&author=" + author
		}
		credentials = append(credentials, cred)
	}

	data, err := json.MarshalIndent(credentials, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode credentials: %v", err)
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		log.Fatalf("Failed to write %s: %v", outputPath, err)
	}

	fmt.Printf("Wrote %d author credentials to %s\n", len(credentials), outputPath)
}

// handleEmailToken stores a fresh single-use token for one author and prints
// the validation link that would normally be emailed.
func handleEmailToken(cfg *config.Config, author string, ttl time.Duration) {
	found := false
	for _, a := range cfg.Authors {
		if a == author {
			found = true
			break
		}
	}
	if !found {
		log.Fatalf("Unknown author %q (configured: %s)", author, strings.Join(cfg.Authors, ", "))
	}

	loc, err := time.LoadLocation(cfg.TZKey)
	if err != nil {
		log.Fatalf("Failed to load timezone %q: %v", cfg.TZKey, err)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	clk := clock.New(loc, cfg.TestNow)
	tokenService := service.NewTokenService(repository.NewTokenRepository(db), clk)

	token, err := tokenService.Issue(context.Background(), author, ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	if cfg.ExternalBaseURL != "" {
		fmt.Printf("%s/token/%s\n", strings.TrimRight(cfg.ExternalBaseURL, "/"), token)
	} else {
		fmt.Println(token)
	}
	fmt.Fprintf(os.Stderr, "Single-use token for %s, expires in %s\n", author, ttl)
}

func handleHash(password string) {
	hash, err := security.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(hash)
}

func printUsage() {
	fmt.Println("Usage: tokens <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  issue        Mint durable signed tokens for every configured author")
	fmt.Println("  email-token  Store a single-use token for one author and print its link")
	fmt.Println("  hash         Print the bcrypt hash of an admin password")
}
