package instance

import "os"

// GetID returns the process instance identifier or a default value.
// Heroku-style dynos expose DYNO; other hosts can set INSTANCE_ID.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if id := os.Getenv("INSTANCE_ID"); id != "" {
		return id
	}
	return "api-0"
}
