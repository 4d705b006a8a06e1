package waitercall

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// admitScript performs the gate's compare-and-set server-side: the key
// exists for exactly one minimum interval after an admission, so its
// presence is the "window still open" condition and its PTTL is the
// remaining wait. Running it as a script keeps check and set atomic.
var admitScript = redis.NewScript(`
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 then
  return {0, ttl}
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return {1, 0}
`)

// RedisAdmissionStore implements AdmissionStore over Redis. Useful when
// the tables live in Postgres but the calling tier should not hold a
// database connection per public request.
type RedisAdmissionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisAdmissionStore creates a Redis-backed AdmissionStore.
func NewRedisAdmissionStore(client *redis.Client) *RedisAdmissionStore {
	return &RedisAdmissionStore{
		client:    client,
		keyPrefix: "waitercall:last:",
	}
}

func (s *RedisAdmissionStore) Admit(ctx context.Context, subjectID uuid.UUID, now time.Time, minInterval time.Duration) (Admission, error) {
	key := s.keyPrefix + subjectID.String()

	result, err := admitScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), minInterval.Milliseconds()).Result()
	if err != nil {
		return Admission{}, err
	}

	values, ok := result.([]any)
	if !ok || len(values) != 2 {
		return Admission{}, fmt.Errorf("unexpected admit script response: %v", result)
	}

	admitted, _ := values[0].(int64)
	if admitted == 1 {
		return Admission{Admitted: true}, nil
	}

	ttlMillis, _ := values[1].(int64)
	return Admission{
		Admitted:   false,
		RetryAfter: time.Duration(ttlMillis) * time.Millisecond,
	}, nil
}
