package socket_io

import (
	socketio_utils "Squares/services/socket_io/utils"
	"Squares/services/squares"
	"context"

	"go.uber.org/zap"
)

// Broadcaster pushes committed game events to the sockets watching the game.
// New games are announced to every connected client.
type Broadcaster struct {
	sio *MySocketServer
	log *zap.SugaredLogger
}

func NewBroadcaster(sio *MySocketServer, log *zap.SugaredLogger) *Broadcaster {
	return &Broadcaster{sio: sio, log: log}
}

func (b *Broadcaster) Notify(ctx context.Context, event squares.Event) {
	if b.sio.Sio_server == nil {
		return
	}
	var err error
	if event.Type == squares.EventGameCreated {
		err = b.sio.Sio_server.Sockets().Emit(string(event.Type), event)
	} else {
		err = b.sio.Sio_server.To(socketio_utils.GameRoom(event.GameID)).Emit(string(event.Type), event)
	}
	if err != nil {
		b.log.Warnw("error broadcasting game event", "type", event.Type, "game_id", event.GameID, "error", err)
	}
}
