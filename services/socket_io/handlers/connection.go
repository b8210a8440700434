package handlers

import (
	socketio_types "Squares/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// Function to handle socket.io client disconnections. Rooms are left by
// socket.io itself, only the connection map needs cleaning.
func HandleDisconnecting(userID string, client *socket.Socket, sio *socketio_types.SocketServer,
	log *zap.SugaredLogger) func(args ...interface{}) {
	return func(args ...interface{}) {
		sio.RemoveConnection(userID, client)
		log.Debugw("socket disconnecting", "user_id", userID, "socket_id", client.Id(), "reason", args)
	}
}
