package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	realincome "github.com/malusev998/real-income"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	FileConfig struct {
		BaseConfig
		Dir string
	}
	SQLiteConfig struct {
		BaseConfig
		Path string
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
)

const (
	File    Provider = "file"
	SQLite  Provider = "sqlite"
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
	None    Provider = "none"
)

var ErrCacheNotFound = errors.New("cache provider is not found")

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "file":
		return File, nil
	case "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "mongodb":
		return MongoDB, nil
	case "none":
		return None, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewCache(provider Provider, config interface{}) (realincome.Cache, error) {
	switch provider {
	case File:
		return NewFileCache(config.(FileConfig))
	case SQLite:
		return NewSQLiteCache(config.(SQLiteConfig))
	case MySQL:
		return NewMySQLCache(config.(MySQLConfig))
	case MongoDB:
		return NewMongoCache(config.(MongoDBConfig))
	case None:
		return NewNoopCache(), nil
	}

	return nil, ErrCacheNotFound
}
