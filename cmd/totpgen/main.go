package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	pkgauth "github.com/mhersel/vitae/pkg/auth"
)

// totpgen provisions the owner credentials: it generates a TOTP secret with a
// QR code for the authenticator app, and optionally hashes the owner password
// for OWNER_PASSWORD_HASH.
func main() {
	email := flag.String("email", "", "owner email the TOTP key is issued to")
	issuer := flag.String("issuer", "vitae", "issuer shown in the authenticator app")
	out := flag.String("out", "totp-qr.png", "path for the provisioning QR code PNG")
	password := flag.String("password", "", "optional: owner password to hash for OWNER_PASSWORD_HASH")
	flag.Parse()

	if *password != "" {
		if err := pkgauth.ValidatePassword(*password); err != nil {
			fmt.Fprintf(os.Stderr, "password rejected: %v\n", err)
			os.Exit(1)
		}
		hash, err := pkgauth.HashPassword(*password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OWNER_PASSWORD_HASH=%s\n", hash)
	}

	if *email == "" {
		if *password == "" {
			fmt.Fprintln(os.Stderr, "usage: totpgen -email owner@example.com [-issuer name] [-out qr.png] [-password secret]")
			os.Exit(1)
		}
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      *issuer,
		AccountName: *email,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate TOTP key: %v\n", err)
		os.Exit(1)
	}

	if err := qrcode.WriteFile(key.URL(), qrcode.Medium, 256, *out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write QR code: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OWNER_TOTP_SECRET=%s\n", key.Secret())
	fmt.Printf("QR code written to %s\n", *out)
}
