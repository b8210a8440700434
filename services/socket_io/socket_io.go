package socket_io

import (
	"Squares/services/socket_io/handlers"
	socketio_types "Squares/services/socket_io/types"
	socketio_utils "Squares/services/socket_io/utils"
	"Squares/services/squares"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io endpoint on the router. Clients authenticate
// with their JWT, then watch_game / unwatch_game to follow games.
func (sio *MySocketServer) Start(router *gin.Engine, secret string, engine *squares.Engine, log *zap.SugaredLogger) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(false)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: the map must be initialized, or AddConnection panics
	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, userID, name := socketio_utils.VerifyUserConnection(client, secret)
		if !success {
			client.Disconnect(true)
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(userID, client)
		log.Infow("socket connected", "user_id", userID, "name", name, "socket_id", client.Id())

		client.On("watch_game", handlers.HandleWatchGame(engine, client, userID, log))

		client.On("unwatch_game", handlers.HandleUnwatchGame(client, userID, log))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(userID, client, (*socketio_types.SocketServer)(sio), log))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Info("Socket server started")
}

// Close disconnects every client
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
