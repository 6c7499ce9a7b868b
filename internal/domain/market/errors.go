package market

import "errors"

// Domain errors
var (
	// Input contract errors (caller supplied a malformed series)
	ErrEmptySeries     = errors.New("empty series")
	ErrUnorderedSeries = errors.New("series not in ascending date order")
	ErrMixedSeries     = errors.New("series mixes more than one entity")

	ErrInvalidMarket    = errors.New("invalid market")
	ErrInvalidStockCode = errors.New("invalid stock code")

	// Lookup errors
	ErrBarsNotFound      = errors.New("daily bars not found")
	ErrBreadthNotFound   = errors.New("market breadth not found")
	ErrShortNotFound     = errors.New("short interest not found")
	ErrFlowNotFound      = errors.New("investor flow not found")
	ErrFinancialNotFound = errors.New("financial snapshot not found")

	// External errors
	ErrExternalAPIError = errors.New("external API error")
	ErrInvalidResponse  = errors.New("invalid response from external API")
)

// IsInvalidInput 입력 계약 위반 여부
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptySeries) ||
		errors.Is(err, ErrUnorderedSeries) ||
		errors.Is(err, ErrMixedSeries) ||
		errors.Is(err, ErrInvalidMarket) ||
		errors.Is(err, ErrInvalidStockCode)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBarsNotFound) ||
		errors.Is(err, ErrBreadthNotFound) ||
		errors.Is(err, ErrShortNotFound) ||
		errors.Is(err, ErrFlowNotFound) ||
		errors.Is(err, ErrFinancialNotFound)
}

// IsExternalError checks if the error is an external API error
func IsExternalError(err error) bool {
	return errors.Is(err, ErrExternalAPIError) ||
		errors.Is(err, ErrInvalidResponse)
}
