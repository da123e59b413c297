package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-indicators/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_quote_source.go -package=mocks github.com/rxtech-lab/argo-indicators/internal/engine QuoteSource
//go:generate mockgen -destination=./mock_renderer.go -package=mocks github.com/rxtech-lab/argo-indicators/internal/engine Renderer
//go:generate mockgen -destination=./mock_exporter.go -package=mocks github.com/rxtech-lab/argo-indicators/internal/engine Exporter
