package options

import (
	"fmt"
	"time"
)

const (
	FormatJSON = "json"
	FormatXML  = "xml"

	DefaultTimeout = 5000 * time.Millisecond
)

// Options - настройки подключения к веб-сервису Moodle
type Options struct {
	AcceptUntrustedCert bool
	RestFormat          string
	Timeout             time.Duration

	// HasTimeout выставляется только явными опциями таймаута,
	// по нему Submit отличает переопределение от значения по умолчанию
	HasTimeout bool
}

type Option func(*Options) error

func Default() *Options {
	return &Options{
		AcceptUntrustedCert: false,
		RestFormat:          FormatJSON,
		Timeout:             DefaultTimeout,
	}
}

func (o *Options) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// AcceptUntrustedCert разрешает самоподписанные сертификаты сервера
func AcceptUntrustedCert(v bool) Option {
	return func(o *Options) error {
		o.AcceptUntrustedCert = v
		return nil
	}
}

func RestFormat(v string) Option {
	return func(o *Options) error {
		switch v {
		case FormatJSON, FormatXML:
			o.RestFormat = v
			return nil
		default:
			return fmt.Errorf("restformat must be %q or %q, got %q", FormatJSON, FormatXML, v)
		}
	}
}

func Timeout(d time.Duration) Option {
	return func(o *Options) error {
		return o.setTimeout(d)
	}
}

func TimeoutMs(ms int) Option {
	return func(o *Options) error {
		return o.setTimeout(time.Duration(ms) * time.Millisecond)
	}
}

// TimeoutString принимает строку в формате time.ParseDuration, например "90s" или "2m"
func TimeoutString(s string) Option {
	return func(o *Options) error {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		return o.setTimeout(d)
	}
}

// Таймаут нормализуется до целого положительного числа миллисекунд,
// ноль и отрицательные значения после усечения недопустимы
func (o *Options) setTimeout(d time.Duration) error {
	ms := d.Milliseconds()
	if ms <= 0 {
		return fmt.Errorf("timeout must be a positive number of milliseconds, got %s", d)
	}
	o.Timeout = time.Duration(ms) * time.Millisecond
	o.HasTimeout = true
	return nil
}
