// Package journal pushes game-action records onto a Redis list so an
// external consumer can replay or aggregate finished games. Publishing is
// best effort; the game never blocks on it.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueue is the list key records are pushed to.
const DefaultQueue = "game_actions"

// Record is one journaled game action.
type Record struct {
	LobbyID   string                 `json:"lobbyId"`
	ActorID   string                 `json:"actorId,omitempty"`
	Action    string                 `json:"action"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Publisher appends records to the queue.
type Publisher struct {
	rdb   *redis.Client
	queue string
	log   *logrus.Logger
}

// Connect dials Redis and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int, log *logrus.Logger) (*Publisher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Infof("connected to redis at %s", addr)
	return &Publisher{rdb: rdb, queue: DefaultQueue, log: log}, nil
}

// Publish appends one record. Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, rec Record) {
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		p.log.Warnf("journal: marshal %s record: %v", rec.Action, err)
		return
	}
	if err := p.rdb.RPush(ctx, p.queue, b).Err(); err != nil {
		p.log.Warnf("journal: rpush %s record: %v", rec.Action, err)
	}
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
