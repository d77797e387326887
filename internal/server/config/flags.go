package config

import (
	"flag"
	"os"
	"time"

	"github.com/ddanilovs/inform/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      full session token validity, minutes
//	-r int      restricted session token validity, minutes
//	-l int      minimum password length
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration flags
// are accepted as integers in minutes and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	fullTokenValidity := fs.Int("t", int(config.FullTokenValidityDuration.Minutes()), "full token validity (in minutes)")
	restrictedTokenValidity := fs.Int("r", int(config.RestrictedTokenValidityDuration.Minutes()), "restricted token validity (in minutes)")

	fs.IntVar(&config.MinPasswordLength, "l", config.MinPasswordLength, "minimum password length")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.FullTokenValidityDuration = time.Duration(*fullTokenValidity) * time.Minute
	config.RestrictedTokenValidityDuration = time.Duration(*restrictedTokenValidity) * time.Minute
}
