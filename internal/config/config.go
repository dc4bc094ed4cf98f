package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nerdneilsfield/paradox-mod-translator/pkg/llm"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey 非 raw 模型没有可用的 API 密钥
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrUnknownModel 模型名称不在 models 表中
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidConfig 配置值不合法
	ErrInvalidConfig = errors.New("invalid config")
)

// 分块大小单位
const (
	ChunkUnitChars  = "chars"
	ChunkUnitTokens = "tokens"
)

// 强制术语策略
const (
	ForcePolicyReport = "report"
	ForcePolicyFail   = "fail"
)

// LangPlaceholder target_dir 中被替换为目标语言的占位符
const LangPlaceholder = "{lang}"

// ModelConfig 保存模型配置
type ModelConfig struct {
	Name            string   `mapstructure:"name"`
	ModelID         string   `mapstructure:"model_id"`
	APIType         string   `mapstructure:"api_type"`
	BaseURL         string   `mapstructure:"base_url"`
	Key             string   `mapstructure:"key"`
	Temperature     float64  `mapstructure:"temperature"`
	MaxOutputTokens int      `mapstructure:"max_output_tokens"`
	IsReasoning     bool     `mapstructure:"is_reasoning"`   // 是否是推理模型
	ReasoningTags   []string `mapstructure:"reasoning_tags"` // 推理过程标记（如 ["<think>", "</think>"]）
	MaxRetries      *int     `mapstructure:"max_retries"`    // 未设置时使用全局 max_retries，0 表示不重试
}

// Config 保存翻译任务的所有配置
type Config struct {
	SourceLang       string                 `mapstructure:"source_lang"`
	TargetLangs      []string               `mapstructure:"target_langs"`
	SourceDir        string                 `mapstructure:"source_dir"`
	TargetDir        string                 `mapstructure:"target_dir"` // 可包含 {lang}
	Glossaries       []string               `mapstructure:"glossaries"`
	GlossaryMatch    string                 `mapstructure:"glossary_match"` // word 或 substring
	ForcePolicy      string                 `mapstructure:"force_policy"`   // report 或 fail
	DataDirs         []string               `mapstructure:"data_dirs"`
	PromptFile       string                 `mapstructure:"prompt_file"`
	DefaultModelName string                 `mapstructure:"default_model_name"`
	ModelConfigs     map[string]ModelConfig `mapstructure:"models"`
	Concurrency      int                    `mapstructure:"concurrency"` // 同时进行的远程请求数
	MaxChunkSize     int                    `mapstructure:"max_chunk_size"`
	ChunkUnit        string                 `mapstructure:"chunk_unit"`      // chars 或 tokens
	RequestTimeout   int                    `mapstructure:"request_timeout"` // 请求超时时间（秒）
	MaxRetries       int                    `mapstructure:"max_retries"`
	FollowSymlinks   bool                   `mapstructure:"follow_symlinks"`
	YAMLCheck        bool                   `mapstructure:"yaml_check"`
	Debug            bool                   `mapstructure:"debug"`
	Verbose          bool                   `mapstructure:"verbose"` // 详细模式，输出每个分块
	LogFile          string                 `mapstructure:"log_file"`
	StatsFile        string                 `mapstructure:"stats_file"` // 运行历史文件，空表示用户数据目录下的 stats.json
	NoStats          bool                   `mapstructure:"no_stats"`

	// 环境变量中的密钥：PMT_API_KEY 与 OPENAI_API_KEY
	APIKey       string `mapstructure:"api_key"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
}

// LoadConfig 从文件加载配置；configPath 为空时在家目录和当前目录查找 .pmt.yaml
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".pmt")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// 模型名称可能包含点号，逐个解析 models 下的条目，覆盖内置模型表
	config.ModelConfigs = DefaultModelConfigs()
	modelsRaw := v.GetStringMap("models")
	if len(modelsRaw) > 0 {
		for modelName := range modelsRaw {
			var modelCfg ModelConfig
			if err := v.UnmarshalKey("models."+modelName, &modelCfg); err != nil {
				return nil, fmt.Errorf("decode model %s: %w", modelName, err)
			}
			if modelCfg.Name == "" {
				modelCfg.Name = modelName
			}
			config.ModelConfigs[modelName] = modelCfg
		}
	}

	return &config, nil
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		SourceLang:       "english",
		TargetLangs:      []string{"simp_chinese"},
		SourceDir:        "localisation/english",
		TargetDir:        "localisation/" + LangPlaceholder,
		GlossaryMatch:    "word",
		ForcePolicy:      ForcePolicyReport,
		PromptFile:       "prompts/translate_system.txt",
		DefaultModelName: "gpt-4o-mini",
		ModelConfigs:     DefaultModelConfigs(),
		Concurrency:      4,
		MaxChunkSize:     2000,
		ChunkUnit:        ChunkUnitChars,
		RequestTimeout:   300,
		MaxRetries:       3,
		YAMLCheck:        true,
	}
}

// DefaultModelConfigs 返回默认模型配置
func DefaultModelConfigs() map[string]ModelConfig {
	return map[string]ModelConfig{
		"gpt-4o-mini": {
			Name:            "gpt-4o-mini",
			ModelID:         "gpt-4o-mini",
			APIType:         llm.APITypeOpenAI,
			Temperature:     0.3,
			MaxOutputTokens: 8192,
		},
		"gpt-4o": {
			Name:            "gpt-4o",
			ModelID:         "gpt-4o",
			APIType:         llm.APITypeOpenAI,
			Temperature:     0.3,
			MaxOutputTokens: 8192,
		},
		"o3-mini": {
			Name:        "o3-mini",
			ModelID:     "o3-mini",
			APIType:     llm.APITypeOpenAIOfficial,
			IsReasoning: true,
		},
		"deepseek-chat": {
			Name:            "deepseek-chat",
			ModelID:         "deepseek-chat",
			APIType:         llm.APITypeOpenAI,
			BaseURL:         "https://api.deepseek.com/v1",
			Temperature:     1.3,
			MaxOutputTokens: 8192,
		},
		"deepseek-reasoner": {
			Name:          "deepseek-reasoner",
			ModelID:       "deepseek-reasoner",
			APIType:       llm.APITypeOpenAI,
			BaseURL:       "https://api.deepseek.com/v1",
			IsReasoning:   true,
			ReasoningTags: []string{"<think>", "</think>"},
		},
		"raw": {
			Name:    "raw",
			APIType: llm.APITypeRaw,
		},
	}
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("source_lang", d.SourceLang)
	v.SetDefault("target_langs", d.TargetLangs)
	v.SetDefault("source_dir", d.SourceDir)
	v.SetDefault("target_dir", d.TargetDir)
	v.SetDefault("glossaries", []string{})
	v.SetDefault("glossary_match", d.GlossaryMatch)
	v.SetDefault("force_policy", d.ForcePolicy)
	v.SetDefault("data_dirs", []string{})
	v.SetDefault("prompt_file", d.PromptFile)
	v.SetDefault("default_model_name", d.DefaultModelName)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("max_chunk_size", d.MaxChunkSize)
	v.SetDefault("chunk_unit", d.ChunkUnit)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("yaml_check", d.YAMLCheck)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")
	v.SetDefault("stats_file", "")
	v.SetDefault("no_stats", false)
}

// Validate 检查配置值是否可以运行
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.SourceLang) == "" {
		problems = append(problems, "source_lang is empty")
	}
	if len(c.TargetLangs) == 0 {
		problems = append(problems, "target_langs is empty")
	}
	for _, lang := range c.TargetLangs {
		if lang == c.SourceLang {
			problems = append(problems, fmt.Sprintf("target language %q equals source language", lang))
		}
	}
	if c.SourceDir == "" {
		problems = append(problems, "source_dir is empty")
	}
	if c.Concurrency < 1 {
		problems = append(problems, "concurrency must be at least 1")
	}
	if c.MaxChunkSize < 1 {
		problems = append(problems, "max_chunk_size must be at least 1")
	}
	if c.ChunkUnit != ChunkUnitChars && c.ChunkUnit != ChunkUnitTokens {
		problems = append(problems, fmt.Sprintf("chunk_unit must be %q or %q", ChunkUnitChars, ChunkUnitTokens))
	}
	if c.ForcePolicy != ForcePolicyReport && c.ForcePolicy != ForcePolicyFail {
		problems = append(problems, fmt.Sprintf("force_policy must be %q or %q", ForcePolicyReport, ForcePolicyFail))
	}
	if c.GlossaryMatch != "word" && c.GlossaryMatch != "substring" {
		problems = append(problems, "glossary_match must be \"word\" or \"substring\"")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// TargetDirFor 返回某个目标语言的输出根目录
func (c *Config) TargetDirFor(lang string) string {
	if strings.Contains(c.TargetDir, LangPlaceholder) {
		return strings.ReplaceAll(c.TargetDir, LangPlaceholder, lang)
	}
	return c.TargetDir
}

// Timeout 请求超时时间
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// ClientConfig 解析模型配置并确定 API 密钥：模型 key，然后 PMT_API_KEY，然后 OPENAI_API_KEY
func (c *Config) ClientConfig(modelName string) (llm.Config, error) {
	if modelName == "" {
		modelName = c.DefaultModelName
	}
	model, ok := c.ModelConfigs[modelName]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelName)
	}

	key := model.Key
	if key == "" {
		key = c.APIKey
	}
	if key == "" {
		key = c.OpenAIAPIKey
	}
	if key == "" && model.APIType != llm.APITypeRaw {
		return llm.Config{}, fmt.Errorf("%w for model %s: set models.%s.key, PMT_API_KEY or OPENAI_API_KEY",
			ErrMissingAPIKey, modelName, modelName)
	}

	retries := c.MaxRetries
	if model.MaxRetries != nil {
		retries = *model.MaxRetries
	}
	name := model.Name
	if name == "" {
		name = modelName
	}

	return llm.Config{
		Name:            name,
		ModelID:         model.ModelID,
		APIType:         model.APIType,
		BaseURL:         model.BaseURL,
		APIKey:          key,
		Temperature:     model.Temperature,
		MaxOutputTokens: model.MaxOutputTokens,
		IsReasoning:     model.IsReasoning,
		ReasoningTags:   model.ReasoningTags,
		MaxRetries:      retries,
		Timeout:         c.Timeout(),
	}, nil
}
