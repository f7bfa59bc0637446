package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gamecafe-pos/internal/config"
	"gamecafe-pos/internal/models"
)

const (
	keyGames      = "pos:games"
	keyUser       = "pos:user:%s"
	keySession    = "pos:session:%s"
	keySessionSet = "pos:sessions"
	keyInvoices   = "pos:invoice_records"
	keyPayments   = "pos:payments"
)

// RedisStore keeps the same collections as FileStore as JSON blobs in
// Redis, for counters that want shared state across restarts or hosts.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Games() ([]models.Game, error) {
	data, err := s.client.Get(s.ctx, keyGames).Result()
	if err == redis.Nil {
		games := DefaultGames()
		if err := s.SaveGames(games); err != nil {
			return nil, err
		}
		return games, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	var games []models.Game
	if err := json.Unmarshal([]byte(data), &games); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games: %w", err)
	}
	return games, nil
}

func (s *RedisStore) SaveGames(games []models.Game) error {
	data, err := json.Marshal(games)
	if err != nil {
		return fmt.Errorf("failed to marshal games: %w", err)
	}
	return s.client.Set(s.ctx, keyGames, data, 0).Err()
}

func (s *RedisStore) User(mobile string) (*models.User, error) {
	data, err := s.client.Get(s.ctx, fmt.Sprintf(keyUser, mobile)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (s *RedisStore) SaveUser(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return s.client.Set(s.ctx, fmt.Sprintf(keyUser, user.Mobile), data, 0).Err()
}

func (s *RedisStore) Sessions() (map[string]models.Session, error) {
	ids, err := s.client.SMembers(s.ctx, keySessionSet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make(map[string]models.Session, len(ids))
	if len(ids) == 0 {
		return sessions, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(s.ctx, fmt.Sprintf(keySession, id))
	}
	if _, err := pipe.Exec(s.ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}
		var sess models.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			continue
		}
		sessions[sess.SessionID] = sess
	}
	return sessions, nil
}

func (s *RedisStore) SaveSession(sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(s.ctx, fmt.Sprintf(keySession, sess.SessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return s.client.SAdd(s.ctx, keySessionSet, sess.SessionID).Err()
}

func (s *RedisStore) DeleteSession(sessionID string) (*models.Session, error) {
	key := fmt.Sprintf(keySession, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if err := s.client.Del(s.ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}
	if err := s.client.SRem(s.ctx, keySessionSet, sessionID).Err(); err != nil {
		return nil, fmt.Errorf("failed to remove session from set: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) AppendInvoiceRecord(rec models.InvoiceRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice record: %w", err)
	}
	return s.client.RPush(s.ctx, keyInvoices, data).Err()
}

func (s *RedisStore) AppendPayment(p models.Payment) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}
	return s.client.RPush(s.ctx, keyPayments, data).Err()
}
