package internal

import (
	"encoding/binary"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"

	"github.com/tuannm99/bcsv/internal/alias/bx"
	"github.com/tuannm99/bcsv/internal/bcsv"
	"github.com/tuannm99/bcsv/internal/hashname"
)

var ErrInvalidConfig = errors.New("bcsv: invalid config")

type BcsvConfig struct {
	AppName string `mapstructure:"app_name"`

	Codec struct {
		Endian       string `mapstructure:"endian"`
		Strict       bool   `mapstructure:"strict"`
		TextEncoding string `mapstructure:"text_encoding"`
	} `mapstructure:"codec"`

	Names struct {
		Hash       string `mapstructure:"hash"`
		LookupFile string `mapstructure:"lookup_file"`
	} `mapstructure:"names"`

	Render struct {
		Delimiter string `mapstructure:"delimiter"`
		Signed    bool   `mapstructure:"signed"`
	} `mapstructure:"render"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "bcsv")
	v.SetDefault("codec.endian", "big")
	v.SetDefault("codec.strict", false)
	v.SetDefault("codec.text_encoding", "utf-8")
	v.SetDefault("names.hash", hashname.VariantX3_16)
	v.SetDefault("names.lookup_file", "")
	v.SetDefault("render.delimiter", ",")
	v.SetDefault("render.signed", false)
	v.SetDefault("log.level", "info")
}

// LoadConfig reads path (YAML) over the defaults. An empty path uses the
// defaults alone. BCSV_* environment variables override both, e.g.
// BCSV_CODEC_ENDIAN=little.
func LoadConfig(path string) (*BcsvConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BCSV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg BcsvConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *BcsvConfig) Validate() error {
	if _, err := c.ByteOrder(); err != nil {
		return err
	}
	if _, err := c.TextEncoding(); err != nil {
		return err
	}
	if _, err := c.HashFunc(); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Render.Delimiter == "" {
		return errors.Wrap(ErrInvalidConfig, "render.delimiter is empty")
	}
	return nil
}

func (c *BcsvConfig) ByteOrder() (binary.ByteOrder, error) {
	switch strings.ToLower(c.Codec.Endian) {
	case "big", "be":
		return bx.BE, nil
	case "little", "le":
		return bx.LE, nil
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "codec.endian %q", c.Codec.Endian)
	}
}

// TextEncoding resolves codec.text_encoding. UTF-8 maps to nil.
func (c *BcsvConfig) TextEncoding() (encoding.Encoding, error) {
	name := strings.ToLower(c.Codec.TextEncoding)
	switch name {
	case "", "utf-8", "utf8":
		return nil, nil
	case "shift-jis", "sjis":
		return japanese.ShiftJIS, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "codec.text_encoding %q", c.Codec.TextEncoding)
	}
	return enc, nil
}

func (c *BcsvConfig) HashFunc() (hashname.Func, error) {
	return hashname.ByName(c.Names.Hash)
}

func (c *BcsvConfig) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "log.level %q", c.Log.Level)
	}
	return lvl, nil
}

// CodecOptions maps the codec section to table options.
func (c *BcsvConfig) CodecOptions() (bcsv.Options, error) {
	order, err := c.ByteOrder()
	if err != nil {
		return bcsv.Options{}, err
	}
	enc, err := c.TextEncoding()
	if err != nil {
		return bcsv.Options{}, err
	}
	return bcsv.Options{
		ByteOrder:    order,
		Strict:       c.Codec.Strict,
		TextEncoding: enc,
	}, nil
}
