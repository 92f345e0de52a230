package testdb

import "os"

// Environment variables consulted by URL, in order of preference.
const (
	EnvTestDBURL   = "TASKBOARD_TEST_DB_URL"
	EnvDatabaseURL = "DATABASE_URL"
)

// ciVariables are set by the common CI providers.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsCI reports whether the process runs under a CI provider.
func IsCI() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// URL returns the database URL for integration tests, or "" when none is set.
func URL() string {
	for _, name := range []string{EnvTestDBURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
