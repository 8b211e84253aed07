package protect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "pair.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func TestLoadPairConfig(t *testing.T) {
	file := writeConfig(t, `
quote_endpoint: http://127.0.0.1:9999/quote
slippage_bps: 100
`)
	config, err := LoadPairConfig(file)
	require.NoError(t, err)
	require.Equal(t, PairConfig{
		QuoteEndpoint: "http://127.0.0.1:9999/quote",
		InputMint:     SOLMint,
		OutputMint:    USDCMint,
		SlippageBps:   100,
	}, config)
}

func TestLoadPairConfig_Defaults(t *testing.T) {
	config, err := LoadPairConfig(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, DefaultPairConfig(), config)
}

func TestLoadPairConfig_Errors(t *testing.T) {
	_, err := LoadPairConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadPairConfig(writeConfig(t, `slippage_bps: -1`))
	require.ErrorIs(t, err, ErrInvalidPairConfig)

	_, err = LoadPairConfig(writeConfig(t, `slippage_bps: [1`))
	require.Error(t, err)
}

func TestLoadPairConfig_Shipped(t *testing.T) {
	config, err := LoadPairConfig("../pair.yaml")
	require.NoError(t, err)
	require.Equal(t, DefaultPairConfig(), config)
}
