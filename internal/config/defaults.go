package config

const (
	defaultIncomingDir        = "~/.local/share/photonym/incoming"
	defaultLibraryDir         = "~/photos"
	defaultLogDir             = "~/.local/share/photonym/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultWorkers            = 3
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultDetectorTimeout    = 30
	defaultDescriberTimeout   = 60
	defaultNotifyTimeout      = 10
)

// defaultExtensions lists the photo file extensions ingest considers.
var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".tiff"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			IncomingDir: defaultIncomingDir,
			LibraryDir:  defaultLibraryDir,
			LogDir:      defaultLogDir,
		},
		Detector: Detector{
			TimeoutSeconds: defaultDetectorTimeout,
		},
		Describer: Describer{
			TimeoutSeconds: defaultDescriberTimeout,
		},
		Ingest: Ingest{
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Batch:          true,
			Errors:         true,
		},
		Workflow: Workflow{
			Workers:            defaultWorkers,
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
