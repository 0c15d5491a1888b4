package faults

import "strconv"

// ClassifyHTTPError determines whether an HTTP error should be retried:
// 4xx client errors other than 408 and 429 are irrecoverable, 5xx are
// recoverable.
func ClassifyHTTPError(statusCode int, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindBackend,
		Category:   getHTTPErrorCategory(statusCode),
		Code:       strconv.Itoa(statusCode),
		StatusCode: statusCode,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes: be conservative and retry
		return Recoverable
	}
}
