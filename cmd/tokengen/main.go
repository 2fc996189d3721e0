// AngelaMos | 2026
// main.go

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/carterperez-dev/arcana-vip/internal/auth"
	"github.com/carterperez-dev/arcana-vip/internal/config"
)

// tokengen stands in for the identity provider during development:
//
//	tokengen -keys                      writes a fresh key pair
//	tokengen -sub user-1 -role admin    prints a signed access token
func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	genKeys := flag.Bool("keys", false, "generate a new ES256 key pair and exit")
	subject := flag.String("sub", "", "user id to put in the token subject")
	email := flag.String("email", "", "email claim")
	role := flag.String("role", "user", "role claim")
	flag.Parse()

	if err := run(*configPath, *genKeys, auth.Principal{
		UserID: *subject,
		Email:  *email,
		Role:   *role,
	}); err != nil {
		slog.Error("tokengen failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, genKeys bool, p auth.Principal) error {
	jwtCfg, err := config.LoadJWT(configPath)
	if err != nil {
		return err
	}

	if genKeys {
		if err := auth.GenerateKeyPair(jwtCfg.PrivateKeyPath, jwtCfg.PublicKeyPath); err != nil {
			return err
		}
		slog.Info("key pair written",
			"private", jwtCfg.PrivateKeyPath,
			"public", jwtCfg.PublicKeyPath,
		)
		return nil
	}

	if p.UserID == "" {
		return fmt.Errorf("-sub is required")
	}

	issuer, err := auth.NewIssuer(jwtCfg)
	if err != nil {
		return err
	}

	token, err := issuer.CreateAccessToken(p)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
