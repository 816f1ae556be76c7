// Command devtoken prints a signed access token for local testing against the
// API. It signs with the JWT settings loaded from the environment.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tutorbook/tutorbook-api/internal/models"
	"github.com/tutorbook/tutorbook-api/internal/service"
	"github.com/tutorbook/tutorbook-api/pkg/config"
	"github.com/tutorbook/tutorbook-api/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "user id to issue the token for")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "", "name claim")
	orgs := flag.String("admin-orgs", "", "comma separated orgs the user administers")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-admin-orgs a,b]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Env == config.EnvProduction {
		log.Fatal("refusing to issue development tokens in production")
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	auth := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	var admin []string
	for _, org := range strings.Split(*orgs, ",") {
		if org = strings.TrimSpace(org); org != "" {
			admin = append(admin, org)
		}
	}

	token, expires, err := auth.IssueToken(models.User{ID: *userID, Email: *email, Name: *name}, admin)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	logr.Sugar().Infow("token issued", "user_id", *userID, "expires_at", expires)
	fmt.Println(token)
}
