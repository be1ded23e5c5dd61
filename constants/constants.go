package constants

import "os"

const SampleRate = 44100

// peak a mix is normalized to
const MixPeak = 0.9

// analysis gates used by melody extraction
const (
	SilenceRMS     = 0.02
	MinCorrelation = 0.1
	MinWindow      = 256
	MinPitchHz     = 80
	MaxPitchHz     = 1000
	MinMidi        = 36
	MaxMidi        = 84
)

const DefaultBPM = 120
const DefaultBars = 8

// bounds on what a score may ask the renderer to allocate
const (
	MinBPM     = 20
	MaxBPM     = 300
	MaxBars    = 256
	MaxSeconds = 600
)

func GetOutDir() string {
	path := os.Getenv("HUMMIX_OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// GetS3Bucket returns an empty string when renders should stay on disk.
func GetS3Bucket() string {
	return os.Getenv("HUMMIX_S3_BUCKET")
}

func GetS3Endpoint() string {
	return os.Getenv("HUMMIX_S3_ENDPOINT")
}

func GetRegion() string {
	region := os.Getenv("AWS_REGION")
	if region != "" {
		return region
	}
	return "us-east-1"
}

// GetDynamoEndpoint returns an empty string when takes are not recorded.
func GetDynamoEndpoint() string {
	return os.Getenv("HUMMIX_DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("HUMMIX_DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "hummix-takes"
}

func GetPort() string {
	port := os.Getenv("HUMMIX_PORT")
	if port != "" {
		return port
	}
	return "8080"
}
