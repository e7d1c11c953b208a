package config

import (
	"strings"

	"NFTNavBackend/src/logger/xzap"

	"github.com/spf13/viper"
)

type Config struct {
	Api        Api          `toml:"api" mapstructure:"api" json:"api"`
	ProjectCfg *ProjectCfg  `toml:"project_cfg" mapstructure:"project_cfg" json:"project_cfg"`
	Log        xzap.LogConf `toml:"log" mapstructure:"log" json:"log"`
	Indexer    Indexer      `toml:"indexer" mapstructure:"indexer" json:"indexer"`
	NameSvc    NameSvc      `toml:"name_svc" mapstructure:"name_svc" json:"name_svc"`
	Ranking    Ranking      `toml:"ranking" mapstructure:"ranking" json:"ranking"`
	Cache      Cache        `toml:"cache" mapstructure:"cache" json:"cache"`
}

type Api struct {
	Port   string `toml:"port" mapstructure:"port" json:"port"`
	MaxNum int64  `toml:"max_num" mapstructure:"max_num" json:"max_num"`
}

type ProjectCfg struct {
	Name string `toml:"name" mapstructure:"name" json:"name"`
}

type Indexer struct {
	Endpoint string `toml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
}

type NameSvc struct {
	NfdEndpoint   string `toml:"nfd_endpoint" mapstructure:"nfd_endpoint" json:"nfd_endpoint"`
	EnvoiEndpoint string `toml:"envoi_endpoint" mapstructure:"envoi_endpoint" json:"envoi_endpoint"`
	// 内容寻址命名集合的contractId，该集合内的token按token维度解析名称
	NamingContractID uint64 `toml:"naming_contract_id" mapstructure:"naming_contract_id" json:"naming_contract_id"`
}

type Ranking struct {
	Endpoint string `toml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
}

type Cache struct {
	// listing风格缓存的新鲜度窗口，秒
	FreshnessSeconds int `toml:"freshness_seconds" mapstructure:"freshness_seconds" json:"freshness_seconds"`
	// 集合缓存条目上限，超出按LRU淘汰
	MaxCollections int `toml:"max_collections" mapstructure:"max_collections" json:"max_collections"`
	// API响应缓存过期时间，秒
	ApiCacheSeconds int `toml:"api_cache_seconds" mapstructure:"api_cache_seconds" json:"api_cache_seconds"`
}

// 解析配置文件到Config对象
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("NFTNAV")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	config, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}
	return config, nil
}

func DefaultConfig() (*Config, error) {
	return &Config{}, nil
}
