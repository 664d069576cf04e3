// Package config reads the agent identity and document settings from the
// environment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"solarvisit/services"
)

// DefaultAutonomyDays is used when SOLARVISIT_DEFAULT_AUTONOMY_DAYS is unset.
// Zero means visits created without an autonomy get no battery.
const DefaultAutonomyDays = 0

// Config holds the runtime settings read from the environment: the agent
// identity stamped on new visits, the company name printed on quotes and the
// autonomy applied when a new visit does not specify one.
type Config struct {
	AgentName           string
	TeamID              string
	CompanyName         string
	DefaultAutonomyDays int
}

// Load reads a .env file when present, then the environment.
// Precedence: explicit env var > .env file > default.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		AgentName:           getEnv("SOLARVISIT_AGENT_NAME", "Agent"),
		TeamID:              getEnv("SOLARVISIT_TEAM_ID", ""),
		CompanyName:         getEnv("SOLARVISIT_COMPANY_NAME", "Solar Visit"),
		DefaultAutonomyDays: parseInt("SOLARVISIT_DEFAULT_AUTONOMY_DAYS", DefaultAutonomyDays),
	}
}

// Agent returns the identity stamped on visits created by this instance.
func (c Config) Agent() services.AgentIdentity {
	return services.AgentIdentity{AgentName: c.AgentName, TeamID: c.TeamID}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseInt reads an env var as a non-negative int with default.
func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}
