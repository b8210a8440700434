package socketio_utils

import (
	"Squares/middleware"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// GameRoom is the room every watcher of a game joins
func GameRoom(gameID string) socket.Room {
	return socket.Room("game:" + gameID)
}

// TokenFromAuth reads the JWT from the handshake auth payload. Clients send
// it as "authorization" (with or without the Bearer prefix) or as "token".
func TokenFromAuth(auth any) (string, error) {
	authData, ok := auth.(map[string]interface{})
	if !ok {
		return "", errors.New("missing auth data")
	}
	for _, key := range []string{"authorization", "token"} {
		if token, ok := authData[key].(string); ok && token != "" {
			token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
			return token, nil
		}
	}
	return "", errors.New("missing authorization token")
}

// VerifyUserConnection authenticates a socket.io client with the same JWT
// the HTTP API accepts
func VerifyUserConnection(client *socket.Socket, secret string) (success bool, userID, name string) {
	token, err := TokenFromAuth(client.Handshake().Auth)
	if err != nil {
		client.Emit("error", gin.H{"error": "Authentication failed: " + err.Error()})
		return false, "", ""
	}
	claims, err := middleware.ParseToken(secret, token)
	if err != nil {
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Set it on the 'authorization' field of the handshake auth.",
		})
		return false, "", ""
	}
	return true, claims.Subject, claims.Name
}
