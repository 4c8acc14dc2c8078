package types

import "time"

// Duration wraps time.Duration so config files and environment variables can
// spell durations as "30s" or "2m" and still round-trip through YAML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, which is how viper's
// decode hook turns strings into durations.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) AsTimeDuration() time.Duration {
	return time.Duration(d)
}
