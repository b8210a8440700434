package handlers

import (
	"Squares/services/squares"
	socketio_utils "Squares/services/socket_io/utils"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// gameIDArg pulls the game id out of the event args, answering with an
// error event when it's missing
func gameIDArg(client *socket.Socket, args []interface{}) (string, bool) {
	if len(args) < 1 {
		client.Emit("error", gin.H{"error": "Missing game id"})
		return "", false
	}
	gameID, ok := args[0].(string)
	if !ok || gameID == "" {
		client.Emit("error", gin.H{"error": "Game id must be a string"})
		return "", false
	}
	return gameID, true
}

// HandleWatchGame joins the client to the game's room and sends it the
// current state, so it doesn't miss anything between load and subscribe
func HandleWatchGame(engine *squares.Engine, client *socket.Socket, userID string,
	log *zap.SugaredLogger) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := gameIDArg(client, args)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		game, err := engine.Get(ctx, gameID)
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error(), "code": squares.Kind(err)})
			return
		}

		client.Join(socketio_utils.GameRoom(gameID))
		log.Debugw("watching game", "user_id", userID, "game_id", gameID)
		client.Emit("game_state", game)
	}
}

func HandleUnwatchGame(client *socket.Socket, userID string, log *zap.SugaredLogger) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := gameIDArg(client, args)
		if !ok {
			return
		}
		client.Leave(socketio_utils.GameRoom(gameID))
		log.Debugw("stopped watching game", "user_id", userID, "game_id", gameID)
		client.Emit("game_unwatched", gin.H{"game_id": gameID})
	}
}
