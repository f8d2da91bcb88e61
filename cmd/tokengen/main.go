package main

import (
	"fmt"
	"os"
	"time"

	"github.com/eventstaffhq/crm-backend-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

// tokengen mints a development access token for exercising the API by hand.
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		fmt.Println("Usage: tokengen <userID> <companyID>")
		os.Exit(1)
	}

	userID := os.Args[1]
	companyID := os.Args[2]

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Println("Error: JWT_SECRET_KEY is not set")
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(secret, "24h")
	token, expiresAt, err := JWTService.GenerateAccessToken(userID, companyID)
	if err != nil {
		fmt.Println("Error generating token:", err)
		os.Exit(1)
	}

	fmt.Printf("Access token for user %s (company %s), expires %s:\n%s\n",
		userID, companyID, time.Unix(expiresAt, 0).Format(time.RFC3339), token)
}
