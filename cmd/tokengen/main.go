// jobtrack - WhatsApp job application tracker
// Copyright (C) 2026  jobtrack contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// tokengen mints bearer tokens for the jobtrack management API, for use by
// external schedulers (cron, GitHub Actions) that call /api/reminders/send.
//
// Configuration is done via environment variables (a .env file in the working
// directory is loaded if present):
//
//	JWT_SIGNING_KEY  HMAC signing key shared with the server (required)
//	JWT_ISSUER       token issuer claim, default "jobtrack"
//	TOKEN_TTL_HOURS  default validity in hours when -ttl is not given
//
// Usage:
//
//	tokengen -subject scheduler -ttl 720h
//	tokengen -newkey
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobtrack-dev/jobtrack/internal/token"
)

func main() {
	_ = godotenv.Load()

	ttlDefault := 720 * time.Hour
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			ttlDefault = time.Duration(hours) * time.Hour
		}
	}

	subject := flag.String("subject", "scheduler", "Subject (uid claim) to issue the token for")
	ttl := flag.Duration("ttl", ttlDefault, "How long the token stays valid")
	newKey := flag.Bool("newkey", false, "Generate a fresh signing key and exit")
	flag.Parse()

	if *newKey {
		key, err := token.GenerateSigningKey()
		if err != nil {
			log.Fatalf("tokengen: generating signing key: %v", err)
		}
		fmt.Println(key)
		return
	}

	signingKey := requireEnv("JWT_SIGNING_KEY")
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "jobtrack"
	}

	svc := token.New(signingKey, issuer)
	tok, err := svc.GenerateToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("tokengen: generating token: %v", err)
	}
	fmt.Println(tok)
}

// requireEnv returns the value of the named environment variable or calls
// log.Fatal if it is empty, so misconfiguration fails loudly at startup.
func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("tokengen: required environment variable %q is not set", key)
	}
	return v
}
