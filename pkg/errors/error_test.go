package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidPeriod, "invalid period")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidPeriod, err.Code)
	suite.Equal("invalid period", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidPeriod, "period must be positive, got %d", -3)
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidPeriod, err.Code)
	suite.Equal("period must be positive, got -3", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeMarketDataFetchFailed, "fetch failed", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeMarketDataFetchFailed, err.Code)
	suite.Equal("fetch failed", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("connection refused")
	err := Wrapf(ErrCodeMarketDataFetchFailed, cause, "fetch failed for symbol: %s", "AAPL")
	suite.NotNil(err)
	suite.Equal("fetch failed for symbol: AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeEmptyInput, "no quotes", cause)
	suite.Equal("[200] no quotes: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNoDataFound, "no data", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Nil(New(ErrCodeInvalidParameter, "x").Unwrap())
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeNoDataFound, "no data")
	err := Wrap(ErrCodeMarketDataFetchFailed, "fetch failed", cause)
	// outermost code wins
	suite.Equal(ErrCodeMarketDataFetchFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrap() {
	err := fmt.Errorf("context: %w", New(ErrCodeMalformedQuote, "nan close"))
	suite.Equal(ErrCodeMalformedQuote, GetCode(err))
	suite.True(HasCode(err, ErrCodeMalformedQuote))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRenderFailed, "render failed", cause)
	suite.True(Is(err, cause))

	var argoErr *Error
	suite.True(As(err, &argoErr))
	suite.Equal(ErrCodeRenderFailed, argoErr.Code)
}

func (suite *ErrorTestSuite) TestKind() {
	tests := []struct {
		name string
		code ErrorCode
		kind Kind
	}{
		{"unknown", ErrCodeUnknown, KindUnknown},
		{"invalid period", ErrCodeInvalidPeriod, KindConstruction},
		{"invalid multiplier", ErrCodeInvalidMultiplier, KindConstruction},
		{"unknown indicator", ErrCodeUnknownIndicator, KindConstruction},
		{"empty input", ErrCodeEmptyInput, KindEmptyInput},
		{"no data", ErrCodeNoDataFound, KindEmptyInput},
		{"malformed quote", ErrCodeMalformedQuote, KindMalformedInput},
		{"unordered quotes", ErrCodeUnorderedQuotes, KindMalformedInput},
		{"fetch failed", ErrCodeMarketDataFetchFailed, KindFetch},
		{"invalid range", ErrCodeInvalidRange, KindFetch},
		{"render failed", ErrCodeRenderFailed, KindOutput},
		{"export failed", ErrCodeExportFailed, KindOutput},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.kind, tc.code.Kind())
			suite.Equal(tc.kind, New(tc.code, "x").Kind())
		})
	}
}

func (suite *ErrorTestSuite) TestKindOf() {
	suite.Equal(KindUnknown, KindOf(nil))
	suite.Equal(KindUnknown, KindOf(errors.New("plain")))
	suite.Equal(KindEmptyInput, KindOf(fmt.Errorf("wrapped: %w", New(ErrCodeEmptyInput, "empty"))))
}

func (suite *ErrorTestSuite) TestKindString() {
	suite.Equal("construction", KindConstruction.String())
	suite.Equal("empty_input", KindEmptyInput.String())
	suite.Equal("malformed_input", KindMalformedInput.String())
	suite.Equal("fetch", KindFetch.String())
	suite.Equal("output", KindOutput.String())
	suite.Equal("unknown", KindUnknown.String())
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeEmptyInput)
	suite.Equal(ErrorCode(300), ErrCodeMalformedQuote)
	suite.Equal(ErrorCode(700), ErrCodeMarketDataFetchFailed)
	suite.Equal(ErrorCode(800), ErrCodeRenderFailed)
}
