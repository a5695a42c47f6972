package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Settings covers daemon runtime options read from the environment. The schedule itself
// lives in the JSON document at DocumentPath.
type Settings struct {
	DocumentPath string
	Addr         string
	TickInterval time.Duration
	Location     *time.Location
	InstanceID   string

	Sink        string
	MPDNetwork  string
	MPDAddr     string
	MPDPassword string

	MQTTBroker string
	MQTTTopic  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
}

var (
	// DefaultTickInterval is the sampling period of the playback loop.
	DefaultTickInterval = time.Second
	// DefaultAddr is where the admin interface listens.
	DefaultAddr = "127.0.0.1:8080"
)

// Load reads an optional .env file and then the CLOCKRADIO_* environment variables.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	s := Settings{
		DocumentPath:  getEnv("CLOCKRADIO_CONFIG", DefaultPath()),
		Addr:          getEnv("CLOCKRADIO_ADDR", DefaultAddr),
		InstanceID:    getEnv("CLOCKRADIO_INSTANCE_ID", ""),
		Sink:          getEnv("CLOCKRADIO_SINK", "mpd"),
		MPDNetwork:    getEnv("CLOCKRADIO_MPD_NETWORK", "tcp"),
		MPDAddr:       getEnv("CLOCKRADIO_MPD_ADDR", "localhost:6600"),
		MPDPassword:   getEnv("CLOCKRADIO_MPD_PASSWORD", ""),
		MQTTBroker:    getEnv("CLOCKRADIO_MQTT_BROKER", ""),
		MQTTTopic:     getEnv("CLOCKRADIO_MQTT_TOPIC", "clock-radio/events"),
		RedisAddr:     getEnv("CLOCKRADIO_REDIS_ADDR", ""),
		RedisPassword: getEnv("CLOCKRADIO_REDIS_PASSWORD", ""),
		RedisChannel:  getEnv("CLOCKRADIO_REDIS_CHANNEL", "clock-radio:events"),
	}

	var err error
	if s.TickInterval, err = getEnvDuration("CLOCKRADIO_TICK", DefaultTickInterval); err != nil {
		return Settings{}, err
	}
	if s.RedisDB, err = getEnvInt("CLOCKRADIO_REDIS_DB", 0); err != nil {
		return Settings{}, err
	}
	if s.Location, err = loadLocation(getEnv("CLOCKRADIO_TZ", "")); err != nil {
		return Settings{}, err
	}
	if s.InstanceID == "" {
		s.InstanceID = uuid.NewString()
	}
	return Normalize(s)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("CLOCKRADIO_TZ: %w", err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
