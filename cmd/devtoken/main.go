package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"kidsflow/internal/domain"
	"kidsflow/internal/service"
)

// Emite un token de sesión para desarrollo local:
//
//	devtoken <user_id> [role] [email]
//
// Firma con SESSION_SECRET; role por defecto parent.
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: devtoken <user_id> [role] [email]")
		os.Exit(2)
	}
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	sess := domain.Session{UserID: os.Args[1], Role: domain.RoleParent}
	if len(os.Args) > 2 {
		sess.Role = os.Args[2]
	}
	if len(os.Args) > 3 {
		sess.Email = os.Args[3]
	}
	switch sess.Role {
	case domain.RoleChild, domain.RoleParent, domain.RoleAdmin, domain.RoleUser:
	default:
		log.Fatalf("unknown role %q", sess.Role)
	}

	token, err := service.NewJWTService(secret, 24*time.Hour).Issue(sess)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
