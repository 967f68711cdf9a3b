package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	realincome "github.com/malusev998/real-income"
	"github.com/malusev998/real-income/cache"
	"github.com/malusev998/real-income/fetchers"
)

type (
	CacheConfig map[cache.Provider]interface{}
	Config      struct {
		CacheProvider cache.Provider
		CacheConfig   CacheConfig
		SDMX          fetchers.SDMXConfig
		DataMapper    fetchers.DataMapperConfig
		Countries     fetchers.BaseConfig
		Policy        realincome.LatestPolicy
	}
)

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]

	return mysqlDriverConfig.FormatDSN()
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".real-income-cache"
	}

	return filepath.Join(dir, "real-income")
}

func getConfig(ctx context.Context) (*Config, error) {
	viper.SetDefault("cache.provider", "file")
	viper.SetDefault("cache.file.dir", defaultCacheDir())
	viper.SetDefault("cache.sqlite.path", "real-income.db")
	viper.SetDefault("fetchers.timeout", 30*time.Second)
	viper.SetDefault("fetchers.max_retries", 2)

	provider, err := cache.ConvertToProviderFromString(viper.GetString("cache.provider"))
	if err != nil {
		return nil, err
	}

	policy, err := realincome.ConvertToLatestPolicyFromString(viper.GetString("fetchers.latest_policy"))
	if err != nil {
		return nil, err
	}

	mysqlConfig := viper.GetStringMapString("cache.mysql")
	mongodbConfig := viper.GetStringMapString("cache.mongodb")

	cacheBaseConfig := cache.BaseConfig{
		Ctx:     ctx,
		Migrate: viper.GetBool("cache.migrate"),
	}

	fetcherBaseConfig := fetchers.BaseConfig{
		Timeout:    viper.GetDuration("fetchers.timeout"),
		MaxRetries: viper.GetInt("fetchers.max_retries"),
	}

	sdmxConfig := fetcherBaseConfig
	sdmxConfig.URL = viper.GetString("fetchers.sdmx.url")

	datamapperConfig := fetcherBaseConfig
	datamapperConfig.URL = viper.GetString("fetchers.datamapper.url")

	return &Config{
		CacheProvider: provider,
		CacheConfig: CacheConfig{
			cache.File: cache.FileConfig{
				BaseConfig: cacheBaseConfig,
				Dir:        viper.GetString("cache.file.dir"),
			},
			cache.SQLite: cache.SQLiteConfig{
				BaseConfig: cacheBaseConfig,
				Path:       viper.GetString("cache.sqlite.path"),
			},
			cache.MySQL: cache.MySQLConfig{
				BaseConfig:       cacheBaseConfig,
				ConnectionString: getMysqlDSN(mysqlConfig),
				TableName:        mysqlConfig["table"],
			},
			cache.MongoDB: cache.MongoDBConfig{
				BaseConfig:       cacheBaseConfig,
				ConnectionString: mongodbConfig["uri"],
				Database:         mongodbConfig["db"],
				Collection:       mongodbConfig["collection"],
			},
			cache.None: nil,
		},
		SDMX: fetchers.SDMXConfig{
			BaseConfig: sdmxConfig,
			Policy:     policy,
		},
		DataMapper: fetchers.DataMapperConfig{
			BaseConfig: datamapperConfig,
			Indicator:  viper.GetString("fetchers.datamapper.indicator"),
		},
		Countries: fetcherBaseConfig,
		Policy:    policy,
	}, nil
}
