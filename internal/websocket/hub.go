package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const channelPrefix = "session_updates:"

// ChannelName is the pub/sub channel job updates for a session go to.
func ChannelName(sessionID uuid.UUID) string {
	return channelPrefix + sessionID.String()
}

// TokenParser resolves a session token to its session id.
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// Hub fans job updates out to the sockets of a session. One pattern
// subscription serves every session on this instance.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*websocket.Conn
	redisClient *redis.Client
	tokens      TokenParser
}

func NewHub(redisClient *redis.Client, tokens TokenParser) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*websocket.Conn),
		redisClient: redisClient,
		tokens:      tokens,
	}
}

// Run relays published updates until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.redisClient.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			sessionID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, channelPrefix))
			if err != nil {
				continue
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := h.tokens.ParseToken(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(sessionID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(sessionID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(sessionID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], conn)
	log.Printf("WebSocket connected: session %s (total: %d)", sessionID, len(h.connections[sessionID]))
}

func (h *Hub) unregisterConnection(sessionID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[sessionID]
	for i, c := range conns {
		if c == conn {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
	}

	log.Printf("WebSocket disconnected: session %s", sessionID)
}

// broadcast holds the write lock: gorilla connections allow one writer.
func (h *Hub) broadcast(sessionID uuid.UUID, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections[sessionID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("WebSocket write to session %s failed: %v", sessionID, err)
		}
	}
}

// Publisher sends job updates to every hub through Redis pub/sub.
type Publisher struct {
	redisClient *redis.Client
}

func NewPublisher(redisClient *redis.Client) *Publisher {
	return &Publisher{redisClient: redisClient}
}

func (p *Publisher) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.redisClient.Publish(ctx, ChannelName(sessionID), string(data)).Err()
}
