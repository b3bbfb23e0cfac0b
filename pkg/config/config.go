package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"motion-box/pkg/effects"
	"motion-box/pkg/logger"
	"os"
	"strconv"
)

var log = logger.Build()

const (
	// Env variables
	OUTPUT_DIR               = "OUTPUT_DIR"
	COVER_ART                = "COVER_ART"
	OUTPUT_VIDEO             = "OUTPUT_VIDEO"
	VIDEO_WIDTH              = "VIDEO_WIDTH"
	VIDEO_HEIGHT             = "VIDEO_HEIGHT"
	OBJECT_STORE_NAME        = "OBJECT_STORE_NAME"
	PUBSUB_NAME              = "PUBSUB_NAME"
	PUBSUB_TOPIC_PROGRESS    = "PUBSUB_TOPIC_PROGRESS"
	DAPR_MAX_REQUEST_SIZE_MB = "DAPR_MAX_REQUEST_SIZE_MB"
	// GRPC port to use to communicate with DAPR
	DAPR_GRPC_PORT = "DAPR_GRPC_PORT"
	// HTTP port for the server
	APP_PORT            = "APP_PORT"
	OBJ_STORE_MAX_RETRY = "OBJ_STORE_MAX_RETRY"

	// Default values
	DefaultOutputDir   = "output"
	DefaultCoverArt    = "docs/logo/cover.png"
	DefaultOutputVideo = "output/video.mp4"
	// Topic to send progress event into
	DefaultPubSubTopic = "render-state"
	// Override default max grpc request size (4MB) for dapr client
	DefaultDaprMaxRequestSize = 2500
	// Default grpc api port for dapr
	DefaultDaprGrpcPort     = 50001
	DefaultAppPort          = 8080
	DefaultObjStoreMaxRetry = 10
)

// Config Every setting of the application, whatever the entrypoint
type Config struct {
	// Directory audio tracks are looked up in, and videos rendered into
	OutputDir string
	// Cover image used when none is given
	CoverArt string
	// Rendered video path when none is given
	OutputVideo string
	Dimensions  effects.Dimensions

	// Dapr output binding used as an object storage. Required by the server only
	ObjectStoreName string
	// Dapr pubsub component for progress events. Optional
	PubSubName           string
	PubSubTopic          string
	DaprMaxRequestSizeMB int
	DaprGrpcPort         int
	AppPort              int
	ObjStoreMaxRetry     int8
}

// Load Read the .env file, if any, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file detected")
	}
	return FromEnv()
}

// FromEnv Build the configuration from env variables, falling back on default values
func FromEnv() (*Config, error) {
	conf := &Config{
		OutputDir:       getEnvOrDefault(OUTPUT_DIR, DefaultOutputDir),
		CoverArt:        getEnvOrDefault(COVER_ART, DefaultCoverArt),
		OutputVideo:     getEnvOrDefault(OUTPUT_VIDEO, DefaultOutputVideo),
		ObjectStoreName: os.Getenv(OBJECT_STORE_NAME),
		PubSubName:      os.Getenv(PUBSUB_NAME),
		PubSubTopic:     getEnvOrDefault(PUBSUB_TOPIC_PROGRESS, DefaultPubSubTopic),
	}
	var err error
	ints := []struct {
		env  string
		def  int
		dest *int
	}{
		{VIDEO_WIDTH, effects.DefaultDimensions.Width, &conf.Dimensions.Width},
		{VIDEO_HEIGHT, effects.DefaultDimensions.Height, &conf.Dimensions.Height},
		{DAPR_MAX_REQUEST_SIZE_MB, DefaultDaprMaxRequestSize, &conf.DaprMaxRequestSizeMB},
		{DAPR_GRPC_PORT, DefaultDaprGrpcPort, &conf.DaprGrpcPort},
		{APP_PORT, DefaultAppPort, &conf.AppPort},
	}
	for _, i := range ints {
		if *i.dest, err = getIntOrDefault(i.env, i.def); err != nil {
			return nil, err
		}
	}
	retry, err := getIntOrDefault(OBJ_STORE_MAX_RETRY, DefaultObjStoreMaxRetry)
	if err != nil {
		return nil, err
	}
	if retry < 0 || retry > 127 {
		return nil, fmt.Errorf("%s must be between 0 and 127, got %d", OBJ_STORE_MAX_RETRY, retry)
	}
	conf.ObjStoreMaxRetry = int8(retry)

	if conf.Dimensions.Width <= 0 || conf.Dimensions.Height <= 0 {
		return nil, fmt.Errorf("invalid video dimensions %dx%d", conf.Dimensions.Width, conf.Dimensions.Height)
	}
	return conf, nil
}

func getEnvOrDefault(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// An unset or zero variable takes the default value. Anything else must be an integer
func getIntOrDefault(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer : %w", key, err)
	}
	if i == 0 {
		return def, nil
	}
	return int(i), nil
}
