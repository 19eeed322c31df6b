package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/engine"
	"github.com/roach88/memtrans/internal/num"
)

// Settings keys.
const (
	KeyType     = "type"
	KeyMin      = "mutation.min_magnitude"
	KeyMax      = "mutation.max_magnitude"
	KeyInterval = "mutation.interval_ms"
	KeyRefresh  = "refresh_ms"
	KeySeed     = "seed"
	KeyJournal  = "journal"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MEMTRANS"

	// DefaultFile is read when present and no file is named explicitly.
	DefaultFile = "memtrans.yaml"
)

// flagKeys maps run flags to settings keys.
var flagKeys = map[string]string{
	"type":     KeyType,
	"min":      KeyMin,
	"max":      KeyMax,
	"interval": KeyInterval,
	"refresh":  KeyRefresh,
	"seed":     KeySeed,
	"journal":  KeyJournal,
}

// Settings is the validated, typed configuration of a run.
type Settings struct {
	Type         cell.Representation
	MinMagnitude *apd.Decimal
	MaxMagnitude *apd.Decimal
	IntervalMs   int64
	RefreshMs    int64

	// Seed seeds the random source. 0 means seed from entropy.
	Seed int64

	// Journal is the SQLite path. Empty disables the journal.
	Journal string

	// File is the config file that was read, if any.
	File string
}

// Options controls Load.
type Options struct {
	// File is the YAML file to read. Empty means DefaultFile, which may be
	// missing; a named file must exist.
	File string

	// Flags, when set, override every other layer for the flags the user
	// actually passed.
	Flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyType, cell.Default.String())
	v.SetDefault(KeyMin, "1")
	v.SetDefault(KeyMax, "100")
	v.SetDefault(KeyInterval, 500)
	v.SetDefault(KeyRefresh, engine.DefaultRefreshPeriod.Milliseconds())
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyJournal, "")
}

// Load merges every layer and validates the result.
func Load(opts Options) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, err := readFile(v, opts.File)
	if err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	s, err := decode(v)
	if err != nil {
		return nil, err
	}
	s.File = file
	if err := validate(s.schemaData()); err != nil {
		return nil, err
	}
	return s, nil
}

func readFile(v *viper.Viper, path string) (string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file: %w", err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	return path, nil
}

func decode(v *viper.Viper) (*Settings, error) {
	r, err := cell.Parse(v.GetString(KeyType))
	if err != nil {
		return nil, &SchemaError{Path: KeyType, Message: err.Error()}
	}

	s := &Settings{Type: r, Journal: v.GetString(KeyJournal)}

	if s.MinMagnitude, err = decimal(v, KeyMin); err != nil {
		return nil, err
	}
	if s.MaxMagnitude, err = decimal(v, KeyMax); err != nil {
		return nil, err
	}

	ints := []struct {
		key string
		dst *int64
	}{
		{KeyInterval, &s.IntervalMs},
		{KeyRefresh, &s.RefreshMs},
		{KeySeed, &s.Seed},
	}
	for _, f := range ints {
		d, err := decimal(v, f.key)
		if err != nil {
			return nil, err
		}
		if num.Cmp(num.Trunc(d), d) != 0 {
			return nil, &SchemaError{Path: f.key, Message: fmt.Sprintf("%s is not an integer", d)}
		}
		*f.dst = num.ToInt64(d)
	}
	return s, nil
}

func decimal(v *viper.Viper, key string) (*apd.Decimal, error) {
	d, err := num.Parse(v.GetString(key))
	if err != nil {
		return nil, &SchemaError{Path: key, Message: err.Error()}
	}
	if !num.IsFinite(d) {
		return nil, &SchemaError{Path: key, Message: "must be finite"}
	}
	return d, nil
}

// schemaData is the map handed to the CUE schema.
func (s *Settings) schemaData() map[string]any {
	return map[string]any{
		"type": s.Type.String(),
		"mutation": map[string]any{
			"min_magnitude": num.ToFloat64(s.MinMagnitude),
			"max_magnitude": num.ToFloat64(s.MaxMagnitude),
			"interval_ms":   s.IntervalMs,
		},
		"refresh_ms": s.RefreshMs,
		"seed":       s.Seed,
		"journal":    s.Journal,
	}
}

// MutationConfig converts the mutation settings to an engine config.
func (s *Settings) MutationConfig() engine.Config {
	return engine.Config{
		MinMagnitude: num.Copy(s.MinMagnitude),
		MaxMagnitude: num.Copy(s.MaxMagnitude),
		Interval:     time.Duration(s.IntervalMs) * time.Millisecond,
	}
}

// RefreshPeriod is the display refresh cadence.
func (s *Settings) RefreshPeriod() time.Duration {
	return time.Duration(s.RefreshMs) * time.Millisecond
}

// Fields seeds the console input fields.
func (s *Settings) Fields() engine.Fields {
	f := engine.DefaultFields()
	f.Min = s.MinMagnitude.Text('f')
	f.Max = s.MaxMagnitude.Text('f')
	f.Interval = fmt.Sprint(s.IntervalMs)
	return f
}
