package analyze_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-indicators/e2e/mockserver"
	"github.com/rxtech-lab/argo-indicators/internal/app"
	"github.com/rxtech-lab/argo-indicators/internal/config"
	"github.com/rxtech-lab/argo-indicators/internal/export"
	"github.com/rxtech-lab/argo-indicators/internal/report"
	"github.com/rxtech-lab/argo-indicators/mocks"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"github.com/stretchr/testify/suite"
)

// AnalyzeE2ETestSuite runs the whole pipeline against real provider clients talking
// to a local mock market server.
type AnalyzeE2ETestSuite struct {
	suite.Suite
	server *mockserver.MockMarketServer
	dir    string
}

func TestAnalyzeE2ESuite(t *testing.T) {
	suite.Run(t, new(AnalyzeE2ETestSuite))
}

func (suite *AnalyzeE2ETestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.server = mockserver.NewMockMarketServer()
	suite.Require().NoError(suite.server.Start(""))
}

func (suite *AnalyzeE2ETestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Stop()
	}
}

func (suite *AnalyzeE2ETestSuite) config(providerType marketdata.ProviderType) config.Config {
	cfg := config.Default()
	cfg.Provider.Type = providerType
	cfg.Provider.BaseURL = suite.server.BaseURL()
	cfg.Output.Dir = filepath.Join(suite.dir, string(providerType))
	cfg.Output.Charts = false

	return cfg
}

func (suite *AnalyzeE2ETestSuite) TestYahooRange() {
	suite.server.SetQuotes("AAPL", mocks.GenerateQuotes(120))

	cfg := suite.config(marketdata.ProviderYahoo)
	cfg.Output.Charts = true
	cfg.Output.Export = []export.Format{export.FormatSQLite}

	result, err := app.Analyze(context.Background(), app.AnalyzeOptions{Config: cfg, Ticker: "AAPL"}) //nolint:exhaustruct
	suite.Require().NoError(err)

	// 6mo before the last quote covers the whole series
	suite.Equal(120, result.Summary.Quotes)
	suite.Equal(1, suite.server.Requests("yahoo"))
	suite.Len(result.Output.Result.Series, 6)

	for _, path := range result.Summary.Artifacts {
		suite.FileExists(path)
	}

	summary, err := report.ReadSummary(filepath.Join(cfg.Output.Dir, app.SummaryFileName("AAPL")))
	suite.Require().NoError(err)
	suite.Equal(result.RunID, summary.RunID)
	suite.Equal("1d", summary.Interval)
}

func (suite *AnalyzeE2ETestSuite) TestBinancePaging() {
	quotes := mocks.GenerateQuotes(1500)
	suite.server.SetQuotes("BTCUSDT", quotes)

	cfg := suite.config(marketdata.ProviderBinance)
	cfg.Fetch.Start = optional.Some(quotes[0].Time())
	cfg.Fetch.End = optional.Some(quotes[len(quotes)-1].Time().Add(time.Hour))

	result, err := app.Analyze(context.Background(), app.AnalyzeOptions{Config: cfg, Ticker: "BTCUSDT"}) //nolint:exhaustruct
	suite.Require().NoError(err)

	suite.Equal(1500, result.Summary.Quotes)
	suite.Equal(2, suite.server.Requests("binance"))
	suite.Equal(quotes[len(quotes)-1].Close, result.Summary.LastClose.InexactFloat64())
}

func (suite *AnalyzeE2ETestSuite) TestProviderFailure() {
	suite.server.SetQuotes("AAPL", mocks.GenerateQuotes(30))
	suite.server.SetFailure(http.StatusServiceUnavailable)

	_, err := app.Analyze(context.Background(), app.AnalyzeOptions{ //nolint:exhaustruct
		Config: suite.config(marketdata.ProviderYahoo),
		Ticker: "AAPL",
	})
	suite.Require().Error(err)
	suite.Equal(errors.KindFetch, errors.KindOf(err))
	suite.NoFileExists(filepath.Join(suite.dir, string(marketdata.ProviderYahoo), app.SummaryFileName("AAPL")))
}

func (suite *AnalyzeE2ETestSuite) TestUnknownSymbol() {
	_, err := app.Analyze(context.Background(), app.AnalyzeOptions{ //nolint:exhaustruct
		Config: suite.config(marketdata.ProviderYahoo),
		Ticker: "NOPE",
	})
	suite.Equal(errors.KindFetch, errors.KindOf(err))
}
