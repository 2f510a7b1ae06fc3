package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/wirasatya/business-management/internal/auth"
	"github.com/wirasatya/business-management/internal/rbac"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a bootstrap admin for local development",
	Long: `Seed the database with a bootstrap admin so a fresh environment has
someone who can invite everyone else. The dev password only feeds the local
provider emulation; production identities come from the external provider.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash dev password: %v", err)
		}

		var exists int
		row := db.QueryRow("SELECT 1 FROM users WHERE email = $1", seedAdminEmail)
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin user already exists:", seedAdminEmail)
		} else {
			_, err = db.Exec(
				`INSERT INTO users (email, name, role, invitation_accepted, dev_password_hash, created_at, updated_at)
				 VALUES ($1, $2, $3, true, $4, now(), now())`,
				seedAdminEmail, "Bootstrap Admin", string(rbac.RoleAdmin), string(hash))
			if err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("seeded admin user:", seedAdminEmail)
		}

		token, err := devProviderToken(cfg.Security.ProviderJWTSecret, seedAdminEmail)
		if err != nil {
			log.Fatalf("failed to sign dev provider token: %v", err)
		}
		fmt.Println("dev provider token (24h):", token)
	},
}

// devProviderToken signs a short-lived token the way the external provider
// would, so local clients can exercise the protected routes.
func devProviderToken(secret, email string) (string, error) {
	now := time.Now()
	claims := auth.ProviderClaims{
		Email:         email,
		Name:          "Bootstrap Admin",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dev-" + email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "email", "admin@local.test", "bootstrap admin email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "password", "password", "dev password for local provider emulation")
}
