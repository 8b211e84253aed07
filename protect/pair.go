package protect

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPairConfig = errors.New("invalid pair config")

// PairConfig selects the upstream quote endpoint and the asset pair that is quoted
type PairConfig struct {
	QuoteEndpoint string `yaml:"quote_endpoint"`
	InputMint     string `yaml:"input_mint"`
	OutputMint    string `yaml:"output_mint"`
	SlippageBps   int    `yaml:"slippage_bps"`
}

func DefaultPairConfig() PairConfig {
	return PairConfig{
		QuoteEndpoint: DefaultQuoteEndpoint,
		InputMint:     SOLMint,
		OutputMint:    USDCMint,
		SlippageBps:   DefaultSlippageBps,
	}
}

// LoadPairConfig parses a pair config from a file, missing fields are taken from DefaultPairConfig
func LoadPairConfig(file string) (PairConfig, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return PairConfig{}, err
	}

	var config PairConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return PairConfig{}, err
	}

	defaults := DefaultPairConfig()
	if config.QuoteEndpoint == "" {
		config.QuoteEndpoint = defaults.QuoteEndpoint
	}
	if config.InputMint == "" {
		config.InputMint = defaults.InputMint
	}
	if config.OutputMint == "" {
		config.OutputMint = defaults.OutputMint
	}
	if config.SlippageBps == 0 {
		config.SlippageBps = defaults.SlippageBps
	}
	if config.SlippageBps < 0 || config.SlippageBps > 10000 {
		return PairConfig{}, ErrInvalidPairConfig
	}
	return config, nil
}
