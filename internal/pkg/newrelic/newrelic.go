package newrelic

import (
	"log"

	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// InitNewRelic initializes the New Relic application based on configuration.
// Returns nil when disabled; callers must tolerate a nil application.
func InitNewRelic(configs *models.Config) *newrelic.Application {
	if !configs.NewRelic.Enabled || configs.NewRelic.LicenseKey == "" {
		log.Println("New Relic is disabled or license key not provided")
		return nil
	}

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(configs.NewRelic.AppName),
		newrelic.ConfigLicense(configs.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		log.Printf("Failed to initialize New Relic, continuing without it: %v", err)
		return nil
	}

	return nrApp
}
