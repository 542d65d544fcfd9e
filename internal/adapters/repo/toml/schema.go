package toml

import (
	"fmt"

	"github.com/bnema/dropwatch/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int                     `toml:"version"`
	Domains map[string]domainSchema `toml:"domains"`
}

type domainSchema struct {
	Cookies map[string]string `toml:"cookies"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Domains == nil {
		s.Domains = map[string]domainSchema{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported cookies schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func toSchema(cookies map[string]domain.Cookies) fileSchema {
	file := fileSchema{Version: currentSchemaVersion, Domains: make(map[string]domainSchema, len(cookies))}
	for host, values := range cookies {
		if len(values) == 0 {
			continue
		}
		file.Domains[host] = domainSchema{Cookies: values.Clone()}
	}
	return file
}

func fromSchema(file fileSchema) map[string]domain.Cookies {
	cookies := make(map[string]domain.Cookies, len(file.Domains))
	for host, entry := range file.Domains {
		if len(entry.Cookies) == 0 {
			continue
		}
		cookies[host] = domain.Cookies(entry.Cookies).Clone()
	}
	return cookies
}
