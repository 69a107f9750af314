package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-production production mode toggle
//	-session-duration session lifetime (e.g., "24h")
//	-notice-duration expired-session notice window (e.g., "24h")
//	-guest-duration guest identity TTL (e.g., "168h")
//	-share-token-sign-key share token signing key
//	-share-token-issuer share token issuer name
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sweep-interval expiry sweeper interval (e.g., "10m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var production bool
	var sessionDuration time.Duration
	var noticeDuration time.Duration
	var guestDuration time.Duration
	var shareTokenSignKey string
	var shareTokenIssuer string
	var requestTimeout time.Duration
	var sweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.BoolVar(&production, "production", false, "Production mode")
	flag.DurationVar(&sessionDuration, "session-duration", 0, "Session duration (e.g., 24h)")
	flag.DurationVar(&noticeDuration, "notice-duration", 0, "Expired-session notice window (e.g., 24h)")
	flag.DurationVar(&guestDuration, "guest-duration", 0, "Guest identity TTL (e.g., 168h)")
	flag.StringVar(&shareTokenSignKey, "share-token-sign-key", "", "Share token signing key")
	flag.StringVar(&shareTokenIssuer, "share-token-issuer", "", "Share token issuer")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Expiry sweeper interval (e.g., 10m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Production: production,
		},
		Auth: Auth{
			SessionDuration:    sessionDuration,
			NoticeDuration:     noticeDuration,
			GuestDuration:      guestDuration,
			ShareTokenSignKey:  shareTokenSignKey,
			ShareTokenIssuer:   shareTokenIssuer,
			ShareTokenDuration: 0,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
