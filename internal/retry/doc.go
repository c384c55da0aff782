// Package retry retries warehouse connection attempts with exponential backoff.
//
// Only connecting is retried. Statements issued on an open session are never
// retried here: a failed chunk must surface with an exact count of what was
// committed before it.
//
//	executor := retry.NewExecutor(retry.NewSnowflakeErrorClassifier(), retry.DefaultBackoff())
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
//
// Classifiers decide which errors are transient. Both warehouse classifiers
// fall back to the same network-level checks (refused or reset connections,
// DNS timeouts, unreachable hosts).
//
// Executor values are immutable once built and safe for concurrent use.
package retry
