package repositories

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/careerscout/careerscout/internal/config"
)

const seenRecordsKey = "seen_records"

// redis caps huge variadic SADDs well below this, and smaller writes keep
// the server responsive while a large cycle commits
const ledgerChunkSize = 500

// SeenRecords is the append-only ledger of every record identity ever
// dispatched. Entries are never updated and never expire.
type SeenRecords struct {
	rdb *redis.Client
}

func NewRedisClient(cfg config.LedgerConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewSeenRecordsRepository(rdb *redis.Client) *SeenRecords {
	return &SeenRecords{rdb: rdb}
}

// GetAll snapshots the full identity set. The orchestrator reads it once
// per cycle and dedups against the snapshot, never against live state.
func (repo *SeenRecords) GetAll(ctx context.Context) (map[string]struct{}, error) {

	members, err := repo.rdb.SMembers(ctx, seenRecordsKey).Result()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		seen[member] = struct{}{}
	}
	return seen, nil
}

// Add commits a batch of identities, chunking internally. The caller sees
// all-or-eventually-all semantics: an error means the cycle must not be
// reported as successful.
func (repo *SeenRecords) Add(ctx context.Context, identities []string) error {

	for start := 0; start < len(identities); start += ledgerChunkSize {
		end := start + ledgerChunkSize
		if end > len(identities) {
			end = len(identities)
		}

		chunk := make([]interface{}, 0, end-start)
		for _, id := range identities[start:end] {
			chunk = append(chunk, id)
		}

		if err := repo.rdb.SAdd(ctx, seenRecordsKey, chunk...).Err(); err != nil {
			return err
		}
	}

	return nil
}

func (repo *SeenRecords) Ping(ctx context.Context) error {
	return repo.rdb.Ping(ctx).Err()
}
