package instance

import "github.com/angelmondragon/pdv-backend/pkg/env"

// GetID names the running register process for logs. PDV_INSTANCE_ID wins,
// then the platform's DYNO, then "local".
func GetID() string {
	return env.First("local", "PDV_INSTANCE_ID", "DYNO")
}
