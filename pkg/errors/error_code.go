package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Construction errors (100-199)
	ErrCodeInvalidParameter       ErrorCode = 100
	ErrCodeInvalidConfiguration   ErrorCode = 101
	ErrCodeInvalidPeriod          ErrorCode = 102
	ErrCodeInvalidMultiplier      ErrorCode = 103
	ErrCodeInvalidType            ErrorCode = 104
	ErrCodeMissingParameter       ErrorCode = 105
	ErrCodeInvalidVersion         ErrorCode = 106
	ErrCodeUnknownIndicator       ErrorCode = 107
	ErrCodeIndicatorAlreadyExists ErrorCode = 108

	// Empty input errors (200-299)
	ErrCodeEmptyInput  ErrorCode = 200
	ErrCodeNoDataFound ErrorCode = 201

	// Malformed input errors (300-399)
	ErrCodeMalformedQuote  ErrorCode = 300
	ErrCodeUnorderedQuotes ErrorCode = 301

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidTimespan       ErrorCode = 703
	ErrCodeInvalidRange          ErrorCode = 704
	ErrCodeInvalidProvider       ErrorCode = 705

	// Output errors (800-899)
	ErrCodeRenderFailed ErrorCode = 800
	ErrCodeExportFailed ErrorCode = 801
)

// Kind is the closed set of error categories a caller can switch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindConstruction
	KindEmptyInput
	KindMalformedInput
	KindFetch
	KindOutput
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindEmptyInput:
		return "empty_input"
	case KindMalformedInput:
		return "malformed_input"
	case KindFetch:
		return "fetch"
	case KindOutput:
		return "output"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Kind maps the code onto its category using the code ranges above.
func (c ErrorCode) Kind() Kind {
	switch {
	case c >= 100 && c < 200:
		return KindConstruction
	case c >= 200 && c < 300:
		return KindEmptyInput
	case c >= 300 && c < 400:
		return KindMalformedInput
	case c >= 700 && c < 800:
		return KindFetch
	case c >= 800 && c < 900:
		return KindOutput
	default:
		return KindUnknown
	}
}
