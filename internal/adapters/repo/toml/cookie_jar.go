package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	CookiesPathKey = "cookies.path"

	cookiesFileMode   = 0o600
	cookiesDirMode    = 0o700
	cookiesConfigDir  = ".dropwatch"
	cookiesConfigFile = "cookies.toml"
	tempFilePattern   = ".cookies-*.toml.tmp"
)

// CookieJar keeps cookies in memory and persists them to a TOML file on Save.
type CookieJar struct {
	path   string
	fileMu *sync.RWMutex

	mu      sync.RWMutex
	cookies map[string]domain.Cookies
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CookieJar = (*CookieJar)(nil)

func NewCookieJar(cfg *viper.Viper) (*CookieJar, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(CookiesPathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, cookiesConfigDir, cookiesConfigFile)
	}

	path, err := normalizeCookiesPath(path)
	if err != nil {
		return nil, err
	}

	jar := &CookieJar{path: path, fileMu: lockForPath(path)}
	if err := jar.load(); err != nil {
		return nil, err
	}
	return jar, nil
}

func (j *CookieJar) Path() string {
	return j.path
}

func (j *CookieJar) Cookies(host string) domain.Cookies {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.cookies[host].Clone()
}

func (j *CookieJar) SetCookies(host string, cookies domain.Cookies) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[host] = cookies.Clone()
}

func (j *CookieJar) ClearDomain(host string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, host)
}

// Save replaces the cookies file atomically with the in-memory jar.
func (j *CookieJar) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.fileMu.Lock()
	defer j.fileMu.Unlock()

	j.mu.RLock()
	file := toSchema(j.cookies)
	j.mu.RUnlock()

	return j.writeSchema(file)
}

func (j *CookieJar) load() error {
	j.fileMu.RLock()
	defer j.fileMu.RUnlock()

	file, err := j.readSchema()
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.cookies = fromSchema(file)
	j.mu.Unlock()
	return nil
}

func (j *CookieJar) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read cookies file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode cookies file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (j *CookieJar) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(j.path), cookiesDirMode); err != nil {
		return fmt.Errorf("create cookies directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode cookies file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(j.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp cookies file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp cookies file: %w", err)
	}
	if err := tempFile.Chmod(cookiesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp cookies file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp cookies file: %w", err)
	}

	if err := os.Rename(tempName, j.path); err != nil {
		return fmt.Errorf("replace cookies file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizeCookiesPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve cookies path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
