package wallet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradex/exchange-service/internal/domain"
)

type walletRepoStub struct {
	rows   map[string]domain.WalletAddress
	writes int
	failOn string
}

func newWalletRepoStub() *walletRepoStub {
	return &walletRepoStub{rows: make(map[string]domain.WalletAddress)}
}

func (s *walletRepoStub) UpsertWalletAddress(ctx context.Context, addr domain.WalletAddress) error {
	if addr.MethodCode == s.failOn {
		return errors.New("connection reset by peer")
	}
	s.writes++
	s.rows[addr.MethodCode] = addr
	return nil
}

func newTestImporter(repo Repository) *Importer {
	return NewImporter(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const sampleSource = `[
  {"method_code": 1000, "name": "Bitcoin", "abbreviation": "BTC", "gateway_parameter": "bc1qexample", "status": 1, "coingecko_id": "bitcoin"},
  {"method_code": "1001", "name": "Ethereum", "abbreviation": "ETH", "gateway_parameter": {"address": "0xabc", "memo": null}, "status": "1", "coingecko_id": "ethereum"},
  {"method_code": 1002, "name": "Tether", "abbreviation": "USDT", "gateway_parameter": "TXYZ", "status": 0, "coingecko_id": "tether"}
]`

func TestImport_UpsertsEveryElement(t *testing.T) {
	repo := newWalletRepoStub()
	result, err := newTestImporter(repo).Import(context.Background(), sampleSource)

	require.NoError(t, err)
	assert.Equal(t, Result{Total: 3, Processed: 3}, result)
	require.Len(t, repo.rows, 3)
	assert.Equal(t, "Bitcoin", repo.rows["1000"].Name)
	assert.Equal(t, 1, repo.rows["1001"].Status)
	assert.JSONEq(t, `{"address":"0xabc","memo":null}`, repo.rows["1001"].GatewayParameter)
	assert.Equal(t, "tether", repo.rows["1002"].CoingeckoID)
}

func TestImport_IsIdempotent(t *testing.T) {
	repo := newWalletRepoStub()
	importer := newTestImporter(repo)

	_, err := importer.Import(context.Background(), sampleSource)
	require.NoError(t, err)
	_, err = importer.Import(context.Background(), sampleSource)
	require.NoError(t, err)

	assert.Len(t, repo.rows, 3)
	assert.Equal(t, 6, repo.writes)
}

func TestImport_DuplicateKeysCollapse(t *testing.T) {
	repo := newWalletRepoStub()
	source := `[{"method_code":"7","name":"old"},{"method_code":"7","name":"new"}]`

	result, err := newTestImporter(repo).Import(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "new", repo.rows["7"].Name)
}

func TestImport_EmptyArrayIsSuccess(t *testing.T) {
	repo := newWalletRepoStub()
	result, err := newTestImporter(repo).Import(context.Background(), " [] ")

	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Zero(t, repo.writes)
}

func TestImport_ParseErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "absent", source: ""},
		{name: "whitespace", source: "   \n"},
		{name: "not json", source: "method_code=1000"},
		{name: "object instead of array", source: `{"method_code":1000}`},
		{name: "null", source: "null"},
		{name: "truncated", source: `[{"method_code":1000`},
		{name: "scalar elements", source: `[1,2,3]`},
		{name: "missing method code", source: `[{"method_code":1},{"name":"no key"}]`},
		{name: "null element", source: `[{"method_code":1},null]`},
		{name: "bad status", source: `[{"method_code":1,"status":"enabled"}]`},
		{name: "fractional status", source: `[{"method_code":1,"status":1.9}]`},
		{name: "boolean status", source: `[{"method_code":1,"status":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newWalletRepoStub()
			result, err := newTestImporter(repo).Import(context.Background(), tt.source)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.Zero(t, result.Processed)
			assert.Zero(t, repo.writes)
		})
	}
}

func TestImport_WriteFailureKeepsPartialWrites(t *testing.T) {
	repo := newWalletRepoStub()
	repo.failOn = "1001"

	result, err := newTestImporter(repo).Import(context.Background(), sampleSource)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrParse)
	assert.Equal(t, Result{Total: 3, Processed: 1}, result)
	assert.Contains(t, repo.rows, "1000")
	assert.NotContains(t, repo.rows, "1002", "import stops at the first failed write")
}

func TestImport_StopsWhenContextCancelled(t *testing.T) {
	repo := newWalletRepoStub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestImporter(repo).Import(ctx, sampleSource)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Processed)
}

func TestParseError_Message(t *testing.T) {
	_, err := Parse(`[{"name":"x"}]`)
	require.Error(t, err)
	assert.Equal(t, "parse wallet addresses: element 0: method_code is required", err.Error())
}

func TestParse_StatusAcceptsDecimalStrings(t *testing.T) {
	addrs, err := Parse(`[{"method_code":1,"status":"08"},{"method_code":2,"status":" 1 "},{"method_code":3,"status":0}]`)
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, 8, addrs[0].Status)
	assert.Equal(t, 1, addrs[1].Status)
	assert.Equal(t, 0, addrs[2].Status)
}
