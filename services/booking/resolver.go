package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roadpeak/D3-client-sub000/gateway"

	"go.uber.org/zap"
)

// Strategy is one concrete way of performing a logical backend operation.
// Run returns an error both on transport failure and when the response
// lacks its success marker; the resolver treats the two identically.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Resolve tries strategies in order. The first one to return data wins;
// individual failures are logged and swallowed. When every strategy fails,
// the last error is surfaced, unless its message matches the
// business-rule vocabulary, in which case a typed BusinessRuleError is
// returned instead, because "store closed on Sundays" is something the user
// can act on while a generic failure is not.
func Resolve[T any](ctx context.Context, logger *zap.Logger, operation string, strategies []Strategy[T]) (T, error) {
	var zero T
	var lastErr error
	for _, st := range strategies {
		out, err := st.Run(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		logger.Debug("endpoint strategy failed",
			zap.String("operation", operation),
			zap.String("strategy", st.Name),
			zap.Error(err))
	}
	if lastErr == nil {
		return zero, fmt.Errorf("%s: no endpoint strategies configured", operation)
	}
	if bre := classifyBusinessRule(lastErr); bre != nil {
		return zero, bre
	}
	return zero, fmt.Errorf("%s: all endpoints failed: %w", operation, lastErr)
}

// classifyBusinessRule inspects a final resolver error and, when it speaks
// the business-rule vocabulary, converts it into a typed error carrying any
// branch/store diagnostics from the upstream response body.
func classifyBusinessRule(err error) *BusinessRuleError {
	var apiErr *gateway.APIError
	msg := err.Error()
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	if !isBusinessRuleMessage(msg) {
		return nil
	}

	bre := &BusinessRuleError{Code: "businessRule", Message: msg}
	if apiErr != nil {
		if apiErr.BranchInfo != nil {
			bre.BranchName = apiErr.BranchInfo.Name
			bre.OpeningTime = apiErr.BranchInfo.OpeningTime
			bre.ClosingTime = apiErr.BranchInfo.ClosingTime
			bre.WorkingDays = NormalizeWorkingDays(apiErr.BranchInfo.WorkingDays)
		} else if apiErr.StoreInfo != nil {
			bre.BranchName = apiErr.StoreInfo.Name
			bre.OpeningTime = apiErr.StoreInfo.OpeningTime
			bre.ClosingTime = apiErr.StoreInfo.ClosingTime
			bre.WorkingDays = NormalizeWorkingDays(apiErr.StoreInfo.WorkingDays)
		}
	}
	return bre
}
