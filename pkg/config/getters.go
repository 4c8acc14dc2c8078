package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
)

// GetConfig returns the current resolved configuration from viper as a
// GatewayConfig. This is the configuration after all sources have been
// merged: the environment defaults, the config file, environment variables
// and flags.
func GetConfig() (*types.GatewayConfig, error) {
	out := new(types.GatewayConfig)
	if err := viper.Unmarshal(out, configDecoderHook); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the value for key, decoding through the same hooks as a full
// unmarshal so typed values like durations come back typed.
func Get[T any](key string) (T, error) {
	raw := viper.Get(key)
	if raw == nil {
		return zeroValue[T](), fmt.Errorf("value not found for %s", key)
	}

	var val T
	val, ok := raw.(T)
	if !ok {
		if err := ForKey(key, &val); err != nil {
			return zeroValue[T](), fmt.Errorf("value not of expected type, got: %T: %w", raw, err)
		}
	}

	return val, nil
}

func zeroValue[T any]() T {
	var zero T
	return zero
}

// ForKey unmarshals configuration values associated with a given key into the
// provided cfg structure. It handles composite keys, so values spread across
// nested sub-keys are correctly populated.
func ForKey(key string, cfg interface{}) error {
	return unmarshalCompositeKey(key, cfg)
}

func unmarshalCompositeKey(key string, output interface{}) error {
	compositeValue, isNested, err := getCompositeValue(key)
	if err != nil {
		return err
	}
	decoderConfig := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
		Result:     output,
		TagName:    "mapstructure",
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return err
	}

	if isNested {
		val, ok := compositeValue[key]
		if !ok {
			return fmt.Errorf("invalid configuration detected for key: %s, config value not found", key)
		}
		return decoder.Decode(val)
	}

	return decoder.Decode(compositeValue)
}

// getCompositeValue constructs a composite value for a given key. If the key
// directly corresponds to a set value in viper, it returns that, and true to
// indicate the value is not a nested map. Otherwise it collects all values
// nested under that key and returns them as a map.
func getCompositeValue(key string) (map[string]interface{}, bool, error) {
	var compositeValue map[string]interface{}

	if viper.IsSet(key) {
		rawValue := viper.Get(key)
		switch v := rawValue.(type) {
		case map[string]interface{}:
			compositeValue = v
		default:
			return map[string]interface{}{
				key: rawValue,
			}, true, nil
		}
	} else {
		return nil, false, fmt.Errorf("configuration value not found for key: %s", key)
	}

	lowerKey := strings.ToLower(key)

	keys := viper.AllKeys()
	keyMap := make(map[string]string, len(keys))
	for _, k := range keys {
		keyMap[strings.ToLower(k)] = k
	}

	for lowerK, originalK := range keyMap {
		if strings.HasPrefix(lowerK, lowerKey+".") {
			parts := strings.Split(lowerK[len(lowerKey)+1:], ".")
			if err := setNested(compositeValue, parts, viper.Get(originalK)); err != nil {
				return nil, false, err
			}
		}
	}

	return compositeValue, false, nil
}

// setNested sets a value in a nested map based on a slice of keys, creating
// maps for each level as needed.
func setNested(m map[string]interface{}, keys []string, value interface{}) error {
	if len(keys) == 1 {
		m[keys[0]] = value
		return nil
	}

	if m[keys[0]] == nil {
		m[keys[0]] = make(map[string]interface{})
	}

	nestedMap, ok := m[keys[0]].(map[string]interface{})
	if !ok {
		return fmt.Errorf("key %s is not of type map[string]interface{}", keys[0])
	}

	return setNested(nestedMap, keys[1:], value)
}
