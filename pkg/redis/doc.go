// Package redis connects the Redis client used by the waiter-call
// admission store, with startup retries and a readiness probe.
package redis
