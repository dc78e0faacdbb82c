package profiling

import (
	"fmt"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"go.uber.org/zap"
)

// Config holds continuous profiling configuration
type Config struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

var profileTypeMap = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// InitProfiler initializes continuous profiling for the backend.
// Returns a stop function; profiling is a no-op when disabled.
func InitProfiler(cfg Config, serviceName, namespace, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	appName := cfg.AppName
	if appName == "" {
		appName = serviceName
	}

	profileTypes, err := parseProfileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   cfg.Endpoint,
		Logger:          nil,
		Tags: map[string]string{
			"service_namespace": namespace,
			"environment":       environment,
		},
		ProfileTypes: profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("app_name", appName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("sample_types", cfg.SampleTypes))

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

func parseProfileTypes(sampleTypes string) ([]pyroscope.ProfileType, error) {
	if strings.TrimSpace(sampleTypes) == "" {
		return []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileAllocSpace, pyroscope.ProfileGoroutines}, nil
	}

	var types []pyroscope.ProfileType
	for _, name := range strings.Split(sampleTypes, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mapped, ok := profileTypeMap[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile sample type: %s", name)
		}
		types = append(types, mapped...)
	}

	return types, nil
}
