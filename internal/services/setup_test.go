package services

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/require"

	"github.com/refi-protocol/withdraw-api-service/internal/config"
	testmock "github.com/refi-protocol/withdraw-api-service/tests/mocks"
)

const (
	testRateScale  = uint64(1_000_000)
	testTokenUnit  = uint64(1_000_000)
	testExitFeeBps = uint64(200)
)

// testWalletAddress builds a deterministic base58 address that decodes to
// 32 bytes, the shape the settlement ledger accepts.
func testWalletAddress(seed byte) string {
	return base58.Encode(bytes.Repeat([]byte{seed}, 32))
}

func testChainConfig(t *testing.T) config.ChainConfig {
	cfg := config.ChainConfig{
		GatewayUrl:     "http://127.0.0.1:8899",
		ProgramAddress: testWalletAddress(0xEE),
		TimeoutMs:      1000,
		RateScale:      testRateScale,
		TokenUnit:      testTokenUnit,
		ExitFeeBps:     testExitFeeBps,
		UnitPrice:      "1.0",
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestServices(t *testing.T) (*Services, *testmock.DBClient, *testmock.ChainClient, *testmock.Publisher) {
	mockDB := testmock.NewDBClient(t)
	mockChain := testmock.NewChainClient(t)
	mockPublisher := testmock.NewPublisher(t)

	cfg := &config.Config{Chain: testChainConfig(t)}

	svc := &Services{
		DbClient:  mockDB,
		Chain:     mockChain,
		Publisher: mockPublisher,
		cfg:       cfg,
	}
	return svc, mockDB, mockChain, mockPublisher
}
