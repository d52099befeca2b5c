package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewServer initializes the Socket.IO server. Clients join a room keyed
// by their user id and receive matchFound events there.
func NewServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in join request")
			return
		}
		log.Printf("👥 Socket %s joined room for user %s\n", c.ID(), userID)
		c.Join(userID)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("👋 Socket disconnected:", reason)
	})

	return server
}

// MatchBroadcaster adapts the Socket.IO server to the matching engine's
// Broadcaster interface.
type MatchBroadcaster struct {
	Server *socketio.Server
}

// BroadcastMatch pushes a matchFound event to the user's room.
func (b *MatchBroadcaster) BroadcastMatch(userID string, payload interface{}) {
	b.Server.BroadcastToRoom("/", userID, "matchFound", payload)
}
