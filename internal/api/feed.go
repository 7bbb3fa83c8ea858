package api

import (
	"net/http"
	"sync"

	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type feedFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Feed pushes registration events to connected admin dashboards over a
// websocket. It implements service.ReferralNotifier.
type Feed struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	// wmu serializes broadcasts; gorilla connections do not allow
	// concurrent writers.
	wmu sync.Mutex
}

func NewFeed() *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (f *Feed) Handle(c *gin.Context) {
	log := logger.Logger()

	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade feed connection", zap.Error(err))
		return
	}

	f.mu.Lock()
	f.conns[conn] = struct{}{}
	f.mu.Unlock()

	// Reads are discarded; the loop exists to notice the peer going away.
	go func() {
		defer f.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.conns, conn)
	f.mu.Unlock()
	conn.Close()
}

// ReferralRegistered broadcasts one registration to every connected
// dashboard. Dead connections are dropped on write failure.
func (f *Feed) ReferralRegistered(event model.ReferralEvent) {
	payload, err := json.Marshal(feedFrame{Type: "referral_registered", Data: event})
	if err != nil {
		logger.Logger().Error("failed to marshal feed frame", zap.Error(err))
		return
	}

	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.conns))
	for conn := range f.conns {
		conns = append(conns, conn)
	}
	f.mu.Unlock()

	f.wmu.Lock()
	defer f.wmu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			f.drop(conn)
		}
	}
}
