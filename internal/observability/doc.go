// Package observability provides logging and metrics support for the
// scholar directory service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for searches, the snapshot, exports, and engagement
//   - Context helpers for propagating observability data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("search started")
//
// Add request context to logger:
//
//	logger = observability.WithRequestContext(logger, requestID, userID)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("scholar_directory")
//
// Record metrics:
//
//	metrics.RecordSearchStarted()
//	metrics.RecordSearchCompleted(len(result.Publications), elapsed.Seconds())
//	metrics.RecordCSVExport(rows)
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	ctx = observability.WithUserID(ctx, userID)
//
//	reqID := observability.RequestIDFromContext(ctx)
//	userID := observability.UserIDFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - user_id: Authenticated user identifier
//   - query: User's search query
//   - department_id: Department filter identifier
//   - researcher_id: Researcher identifier
//   - publication_id: Publication identifier
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
