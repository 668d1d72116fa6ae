package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coursemate-engine/internal/secrets"
)

const secretUsage = `usage: coursemate secret <command> [flags]

commands:
  set-jwt           store the token signing key in the OS keyring
  delete-jwt        remove it again
  set-db-password   store the MariaDB password in the OS keyring

set-jwt and set-db-password read the value from stdin; set-jwt -generate
creates a random key instead.`

func runSecret(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, secretUsage)
		return 2
	}
	cmd := args[0]

	fs := flag.NewFlagSet("secret "+cmd, flag.ContinueOnError)
	dataDir := fs.String("data-dir", envOr("COURSEMATE_DATA_DIR", "."), "directory holding config.yml")
	defaultCfg := fs.String("config", filepath.Join("config", "config.yml"), "default config")
	generate := fs.Bool("generate", false, "generate a random jwt secret")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	_, loadCfg, err := bootstrapConfig(*dataDir, *defaultCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := loadCfg()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch cmd {
	case "set-jwt":
		value := ""
		if *generate {
			value, err = randomToken(32)
		} else {
			value, err = readSecret("jwt secret: ")
		}
		if err == nil {
			err = secrets.SetJWTSecret(cfg, value)
		}
	case "delete-jwt":
		err = secrets.DeleteJWTSecret(cfg)
	case "set-db-password":
		var value string
		value, err = readSecret("db password: ")
		if err == nil {
			err = secrets.SetDBPassword(cfg, value)
		}
	default:
		fmt.Fprintln(os.Stderr, secretUsage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "secret %s: %v\n", cmd, err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "secret %s: ok\n", cmd)
	return 0
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
