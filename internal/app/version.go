package app

// ServiceName identifies this service in logs and telemetry.
const ServiceName = "records-service"

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X records-service/internal/app.Version=1.2.0"
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
