package cloudsql

import (
	"fmt"
	"os"
	"strings"
)

// BuildDatabaseURL constructs the Postgres connection string for the
// integrity verifier and activity log, supporting both direct URLs and
// Cloud SQL Unix sockets.
//
// Local development sets DATABASE_URL directly. On Cloud Run,
// INSTANCE_CONNECTION_NAME plus DB_USER/DB_PASSWORD/DB_NAME select the
// socket that the platform mounts under /cloudsql.
func BuildDatabaseURL() (string, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL, nil
	}

	instance := os.Getenv("INSTANCE_CONNECTION_NAME")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	if instance == "" {
		return "", fmt.Errorf("neither DATABASE_URL nor INSTANCE_CONNECTION_NAME is set")
	}
	if user == "" || name == "" {
		return "", fmt.Errorf("DB_USER and DB_NAME must be set when using INSTANCE_CONNECTION_NAME")
	}

	socketPath := fmt.Sprintf("/cloudsql/%s", instance)
	if password != "" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			socketPath, user, password, name), nil
	}

	// IAM authentication, no password.
	return fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable",
		socketPath, user, name), nil
}

// Configured reports whether any database configuration is present. The
// daemon runs without activity logging when it is not.
func Configured() bool {
	return os.Getenv("DATABASE_URL") != "" || os.Getenv("INSTANCE_CONNECTION_NAME") != ""
}

// RedactedURL removes the password from a connection string for safe
// startup logging.
func RedactedURL(connStr string) string {
	if strings.HasPrefix(connStr, "postgresql://") || strings.HasPrefix(connStr, "postgres://") {
		parts := strings.SplitN(connStr, "@", 2)
		if len(parts) == 2 {
			userParts := strings.Split(parts[0], ":")
			if len(userParts) >= 3 {
				return userParts[0] + "://" + userParts[1] + ":***@" + parts[1]
			}
		}
	}
	return connStr
}
