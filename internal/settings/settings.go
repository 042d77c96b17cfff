// Package settings persists the store-wide settings record in a YAML file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	keyStoreName = "store_name"
	keyTaxRate   = "tax_rate"
)

// FileStore reads and writes one settings file. Save replaces the whole
// record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the settings file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the persisted settings, or the defaults when nothing has been
// saved yet. Keys missing from the file keep their default value.
func (s *FileStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := domain.DefaultSettings()
	v := s.newViper()
	v.SetDefault(keyStoreName, def.StoreName)
	v.SetDefault(keyTaxRate, def.TaxRate.String())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return def, nil
		}
		return domain.Settings{}, domain.WrapStorage("load settings", err)
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(v.GetString(keyTaxRate)))
	if err != nil {
		return domain.Settings{}, domain.WrapStorage("load settings", fmt.Errorf("parse %s: %w", keyTaxRate, err))
	}
	out := domain.Settings{StoreName: v.GetString(keyStoreName), TaxRate: rate}
	if err := out.Validate(); err != nil {
		return domain.Settings{}, domain.WrapStorage("load settings", err)
	}
	return out, nil
}

// Save validates in and overwrites the settings file with it.
func (s *FileStore) Save(in domain.Settings) error {
	in.StoreName = strings.TrimSpace(in.StoreName)
	if err := in.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.newViper()
	v.Set(keyStoreName, in.StoreName)
	v.Set(keyTaxRate, in.TaxRate.String())
	if err := v.WriteConfigAs(s.path); err != nil {
		return domain.WrapStorage("save settings", err)
	}
	return nil
}

func (s *FileStore) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	return v
}
