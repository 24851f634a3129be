// Package ratelimit provides rate limiting for capture and inference requests.
//
// Two strategies are available:
//
// FixedInterval enforces a constant pause between consecutive requests. The
// capture loop uses it to bound the request rate against the remote feed:
// after every capture attempt, success or failure, the loop waits the
// configured delay before the next attempt.
//
//	limiter := ratelimit.NewFixedInterval(2 * time.Second)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // cancelled
//	}
//
// TokenBucket allows bursts up to a capacity amortized over a refill period.
// The enrichment pipeline uses it to pace calls to the inference endpoints.
//
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//	if limiter.Allow() {
//	    // proceed with request
//	}
//
// Both implementations satisfy the Limiter interface and are safe for
// concurrent use. Wait is cancellable through its context.
package ratelimit
