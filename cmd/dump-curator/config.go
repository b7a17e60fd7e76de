package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/dump-curator/pkg/types"
)

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// extractConfig resolves the extraction settings from flags, environment
// and config file, in that order of precedence.
func extractConfig() types.ExtractConfig {
	return types.ExtractConfig{
		LengthBounds: types.LengthBounds{
			MinLength: viper.GetInt("min_length"),
			MaxLength: viper.GetInt("max_length"),
		},
		InputPath:  viper.GetString("input"),
		OutputPath: viper.GetString("output"),
		Format:     types.OutputFormat(viper.GetString("format")),
		MaxCount:   viper.GetInt("max_count"),
		Seed:       viper.GetInt64("seed"),
		Source:     viper.GetString("source"),
		PolicyFile: viper.GetString("policy_file"),
	}
}

// catalogConfig resolves the catalog settings under the "catalog" key.
func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		LengthBounds: types.LengthBounds{
			MinLength: viper.GetInt("catalog.min_length"),
			MaxLength: viper.GetInt("catalog.max_length"),
		},
		DBPath:   viper.GetString("catalog.db"),
		Language: viper.GetString("catalog.language"),
		Limit:    viper.GetInt("catalog.limit"),
		Seed:     viper.GetInt64("catalog.seed"),
	}
}
